package migrations

import "github.com/go-rel/rel"

func MigrateCreateUserDetails(schema *rel.Schema) {
	schema.CreateTable("user_details", func(t *rel.Table) {
		t.ID("id")
		t.String("user_id")
		t.String("issuer")
		t.String("name")
		t.String("value")
	})
}

func RollbackCreateUserDetails(schema *rel.Schema) {
	schema.DropTable("user_details")
}
