package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"Storage target to copy the signed-in profile's habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitcontrol storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.SQLiteStore(); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyData copies the signed-in profile's habits and completions from the
// source target into the freshly initialized store.
func (c *InitCmd) copyData(ctx *cli.Context) error {
	if ctx.Sessions == nil {
		return fmt.Errorf("no session provider configured")
	}
	s, ok, err := ctx.Sessions.Current()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("copying requires a signed-in profile, run 'habitcontrol login <email>' first")
	}

	source, err := storage.Open(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	bg := ctx.Background()

	habits, err := source.LoadHabits(bg, s.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to read habits from source: %w", err)
	}
	for _, h := range habits {
		if err := ctx.Store.SaveHabit(bg, s.OwnerID, h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("  Copied %d habits\n", len(habits))

	completions, err := source.LoadCompletions(bg, s.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to read completions from source: %w", err)
	}
	for _, rec := range completions {
		if err := ctx.Store.SaveCompletion(bg, s.OwnerID, rec); err != nil {
			return fmt.Errorf("failed to add completion %s: %w", rec.ID, err)
		}
	}
	ctx.Printf("  Copied %d completions\n", len(completions))

	return nil
}
