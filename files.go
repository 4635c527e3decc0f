package users

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migrations that create the users
// table for the sqlite and postgres dialects
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
