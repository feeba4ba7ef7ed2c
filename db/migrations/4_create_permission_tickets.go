package migrations

import "github.com/go-rel/rel"

func MigrateCreatePermissionTickets(schema *rel.Schema) {
	schema.CreateTable("permission_tickets", func(t *rel.Table) {
		t.String("uid")
		t.String("resource_set")
		t.String("scopes")
		t.DateTime("expiration")
		t.PrimaryKey("uid")
	})

	schema.CreateTable("supplied_claims", func(t *rel.Table) {
		t.ID("id")
		t.String("issuer")
		t.String("name")
		t.String("value")
		t.String("ticket")
		t.ForeignKey("ticket", "permission_tickets", "uid")
	})
}

func RollbackCreatePermissionTickets(schema *rel.Schema) {
	schema.DropTable("supplied_claims")
	schema.DropTable("permission_tickets")
}
