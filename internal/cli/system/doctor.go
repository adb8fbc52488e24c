package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitcontrol/internal/backup"
	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/storage"
	"github.com/julianstephens/habitcontrol/internal/validation"
)

// errSkipped marks a check that does not apply to the current backend.
var errSkipped = errors.New("skipped")

// warning marks a check result that should not fail the run.
type warning struct{ msg string }

func (w warning) Error() string { return w.msg }

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// local checks run even when storage is unreachable
	local bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorageReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Signed in", run: checkSignedIn, local: true},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Data validation", run: checkValidation},
	{name: "Completion integrity", run: checkCompletionIntegrity},
	{name: "Clock/timezone", run: checkClockTimezone, local: true},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	for i, c := range checks {
		if !reachable && !c.local {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var warn warning
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED\n", c.name)
		case errors.As(err, &warn):
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", warn.msg)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	return ctx.Store.Load()
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errSkipped
	}
	st, err := m.MigrationStatus(ctx.Background())
	if err != nil {
		return err
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("schema version %d is behind %d, run 'habitcontrol migrate'", st.Current, st.Latest)
	}
	return nil
}

func checkSignedIn(ctx *cli.Context) error {
	if _, ok := ctx.Habits.Session(); !ok {
		return warning{"no profile signed in, run 'habitcontrol login <email>'"}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.SQLiteStore(); !ok {
		return errSkipped
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return warning{fmt.Sprintf("no backups found in %s, run 'habitcontrol backup create'", mgr.Dir())}
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	if _, ok := ctx.Habits.Session(); !ok {
		return errSkipped
	}
	result := validation.New().ValidateHabits(ctx.Habits.Habits())
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflict(s), run 'habitcontrol validate' for details", len(result.Conflicts))
	}
	return nil
}

// checkCompletionIntegrity looks for completion records whose habit no longer
// exists. SQLite is checked across all profiles, other backends for the
// signed-in profile only.
func checkCompletionIntegrity(ctx *cli.Context) error {
	if s, ok := ctx.SQLiteStore(); ok && s.GetDB() != nil {
		var orphaned int
		err := s.GetDB().QueryRowContext(ctx.Background(), `
			SELECT COUNT(*)
			FROM habit_completions c
			LEFT JOIN habits h ON c.habit_id = h.id
			WHERE h.id IS NULL
		`).Scan(&orphaned)
		if err != nil {
			return fmt.Errorf("failed to check orphaned completions: %w", err)
		}
		if orphaned > 0 {
			return fmt.Errorf("found %d orphaned completions (referencing non-existent habits)", orphaned)
		}
		return nil
	}

	if _, ok := ctx.Habits.Session(); !ok {
		return errSkipped
	}
	orphaned := 0
	for _, c := range ctx.Habits.Completions() {
		if _, ok := ctx.Habits.Habit(c.HabitID); !ok {
			orphaned++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d orphaned completions (referencing non-existent habits)", orphaned)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Habits.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
