package system

import (
	"fmt"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/storage"
)

type MigrateCmd struct {
	Status bool `help:"Show the schema version without applying migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("migrate command only supports SQLite and PostgreSQL storage")
	}

	if c.Status {
		st, err := m.MigrationStatus(ctx.Background())
		if err != nil {
			return err
		}
		ctx.Printf("Schema version: %d (latest %d, %d pending)\n", st.Current, st.Latest, len(st.Pending))
		return nil
	}

	count, err := m.Migrate(ctx.Background(), func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
