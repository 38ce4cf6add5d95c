// Package migrations embeds the show journal schema.
//
// Importing it for its side effect registers the files with the database
// package, so a node can migrate without the SQL present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/showcue-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
