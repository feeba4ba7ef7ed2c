package migrations

import "github.com/go-rel/rel"

func MigrateCreatePolicies(schema *rel.Schema) {
	schema.CreateTable("policies", func(t *rel.Table) {
		t.String("id")
		t.String("name")
		t.String("scopes")
		t.String("resource_set")
		t.PrimaryKey("id")
		t.ForeignKey("resource_set", "resource_sets", "id")
	})

	schema.CreateTable("claim_requirements", func(t *rel.Table) {
		t.String("id")
		t.String("name")
		t.String("friendly_name")
		t.String("claim_type")
		t.String("claim_token_format")
		t.String("issuer")
		t.String("value")
		t.String("policy")
		t.PrimaryKey("id")
		t.ForeignKey("policy", "policies", "id")
	})
}

func RollbackCreatePolicies(schema *rel.Schema) {
	schema.DropTable("claim_requirements")
	schema.DropTable("policies")
}
