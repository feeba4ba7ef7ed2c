package migrations

import "github.com/go-rel/rel"

func MigrateCreateClients(schema *rel.Schema) {
	schema.CreateTable("clients", func(t *rel.Table) {
		t.String("id")
		t.String("client_secret")
		t.String("redirect_uri")
		t.String("claims_redirect_uri")
		t.PrimaryKey("id")
	})
}

func RollbackCreateClients(schema *rel.Schema) {
	schema.DropTable("clients")
}
