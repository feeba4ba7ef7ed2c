package migrations

import "github.com/go-rel/rel"

func MigrateCreateResourceSets(schema *rel.Schema) {
	schema.CreateTable("resource_sets", func(t *rel.Table) {
		t.String("id")
		t.String("name")
		t.String("icon_uri")
		t.String("type")
		t.String("scopes")
		t.String("uri")
		t.String("owner")
		t.PrimaryKey("id")
	})
}

func RollbackCreateResourceSets(schema *rel.Schema) {
	schema.DropTable("resource_sets")
}
