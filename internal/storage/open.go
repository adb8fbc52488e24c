package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitcontrol/internal/storage/postgres"
	"github.com/julianstephens/habitcontrol/internal/storage/sqlite"
)

// Backend names the kind of store a target selects.
type Backend string

const (
	BackendJSON     Backend = "json"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// BackendFor classifies a storage target: a postgres:// URL, a *.db SQLite
// file, or otherwise a directory for the JSON key-value store.
func BackendFor(target string) Backend {
	switch {
	case postgres.IsConnString(target):
		return BackendPostgres
	case strings.EqualFold(filepath.Ext(target), ".db"), strings.EqualFold(filepath.Ext(target), ".sqlite"):
		return BackendSQLite
	default:
		return BackendJSON
	}
}

// Open returns an unopened provider for target. Callers run Init or Load.
func Open(target string) (Provider, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("storage target cannot be empty")
	}

	switch BackendFor(target) {
	case BackendPostgres:
		if postgres.HasEmbeddedCredentials(target) {
			return nil, postgres.ErrEmbeddedCredentials
		}
		return postgres.New(target), nil
	case BackendSQLite:
		return sqlite.NewStore(target), nil
	default:
		return NewLocalStore(target), nil
	}
}

var (
	_ Provider = (*LocalStore)(nil)
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)
