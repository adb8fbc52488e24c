package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitcontrol/internal/logger"
	"github.com/julianstephens/habitcontrol/internal/migration"
	"github.com/julianstephens/habitcontrol/migrations"
)

// Store keeps habits and completions in a local SQLite database file.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.runner().Apply(context.Background(), func(msg string) {
		logger.Info(msg)
	}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitcontrol init' first")
	}

	if err := s.open(); err != nil {
		return err
	}
	return s.runner().Validate(context.Background())
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps SQLite from reporting SQLITE_BUSY under the API server
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) runner() *migration.Runner {
	return migration.NewRunner(s.db, migrations.SQLite(), migration.SQLite)
}

// Migrate applies pending schema migrations and reports each step to logFn.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if err := s.open(); err != nil {
		return 0, err
	}
	return s.runner().Apply(ctx, logFn)
}

// MigrationStatus reports the applied and latest schema versions.
func (s *Store) MigrationStatus(ctx context.Context) (migration.Status, error) {
	if err := s.open(); err != nil {
		return migration.Status{}, err
	}
	return s.runner().Status(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
