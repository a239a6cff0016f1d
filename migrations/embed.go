// Package migrations embeds SQL migration files into the binary.
//
// This allows recordvault to run migrations without the SQL files being
// present on the filesystem.
package migrations

import (
	"embed"

	"github.com/mwhitfield/recordvault/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
