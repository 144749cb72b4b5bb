// Package assets embeds files shipped inside the server binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the SQL migrations rooted at their directory, so names
// read "001_init.sql" rather than "migrations/001_init.sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
