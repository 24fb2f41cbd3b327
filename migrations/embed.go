// Package migrations embeds the versioned schema files for each SQL backend.
package migrations

import (
	"embed"
	"io/fs"
)

const (
	SQLiteDir   = "sqlite"
	PostgresDir = "postgres"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Sub returns the migration files for one backend directory
func Sub(dir string) (fs.FS, error) {
	return fs.Sub(FS, dir)
}
