package migrations

import "github.com/go-rel/rel"

func MigrateCreateRequestingPartyTokens(schema *rel.Schema) {
	schema.CreateTable("requesting_party_tokens", func(t *rel.Table) {
		t.String("token")
		t.String("client_id")
		t.DateTime("expires")
		t.String("user")
		t.PrimaryKey("token")
	})
}

func RollbackCreateRequestingPartyTokens(schema *rel.Schema) {
	schema.DropTable("requesting_party_tokens")
}
