// Package migrations embeds the versioned schema files for each database.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the SQLite migrations rooted at their directory.
func SQLite() fs.FS {
	return sub("sqlite")
}

// Postgres returns the PostgreSQL migrations rooted at their directory.
func Postgres() fs.FS {
	return sub("postgres")
}

func sub(dir string) fs.FS {
	s, err := fs.Sub(FS, dir)
	if err != nil {
		// the directories are embedded at build time
		panic(err)
	}
	return s
}
