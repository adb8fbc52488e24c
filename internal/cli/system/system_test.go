package system

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitcontrol/internal/cli"
	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/habits"
	"github.com/julianstephens/habitcontrol/internal/keyring"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/session"
	"github.com/julianstephens/habitcontrol/internal/storage"
	"github.com/julianstephens/habitcontrol/internal/storage/sqlite"
)

var testNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.Local)

func newTestContext(t *testing.T, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	sessions := session.NewKeyringProvider()
	sessions.Now = func() time.Time { return testNow }

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store, sessions, habits.WithClock(func() time.Time { return testNow }))
	ctx.Out = out
	return ctx, out
}

func setupTestSQLite(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx, out := newTestContext(t, store)
	return ctx, out, dbPath
}

// signIn logs in a profile and loads it into the habit store.
func signIn(t *testing.T, ctx *cli.Context, email string) {
	t.Helper()
	if err := (&LoginCmd{Email: email}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := ctx.SignIn(); err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	t.Cleanup(func() { _ = ctx.Sessions.SignOut() })
}

func readInput() models.HabitInput {
	return models.HabitInput{Name: "Read", Time: "07:30", Recurrence: models.Daily{}, RepeatValue: 1}
}

func TestInitCmd_Success(t *testing.T) {
	ctx, out, dbPath := setupTestSQLite(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(out.String(), "Initialized habitcontrol storage at: "+dbPath) {
		t.Errorf("unexpected output %q", out.String())
	}

	// Run init second time - should be idempotent
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, _ := setupTestSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	signIn(t, ctx, "me@example.com")
	if _, err := ctx.Habits.CreateHabit(context.Background(), readInput()); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	if err := ctx.SignIn(); err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if n := len(ctx.Habits.Habits()); n != 0 {
		t.Errorf("expected empty database after force, got %d habits", n)
	}
}

func TestInitCmd_ForceRequiresSQLite(t *testing.T) {
	ctx, _ := newTestContext(t, storage.NewLocalStore(t.TempDir()))
	if err := (&InitCmd{Force: true}).Run(ctx); err == nil {
		t.Error("expected --force to be rejected for the JSON store")
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	sourceDir := t.TempDir()
	source := storage.NewLocalStore(sourceDir)
	if err := source.Init(); err != nil {
		t.Fatal(err)
	}

	ctx, out, _ := setupTestSQLite(t)
	if _, err := ctx.Sessions.SignIn("me@example.com"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ctx.Sessions.SignOut() })
	owner := session.OwnerID("me@example.com")

	habit := models.Habit{
		ID:          "h1",
		Name:        "Read",
		Time:        "07:30",
		Recurrence:  models.Weekly{Days: models.Weekdays(time.Monday)},
		RepeatValue: 1,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	bg := context.Background()
	if err := source.SaveHabit(bg, owner, habit); err != nil {
		t.Fatal(err)
	}
	if err := source.SaveCompletion(bg, owner, models.HabitCompletion{ID: "c1", HabitID: "h1", Date: "2025-03-03", Completed: true, CompletedAt: testNow}); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Source: sourceDir}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}
	if !strings.Contains(out.String(), "Copied 1 habits") || !strings.Contains(out.String(), "Copied 1 completions") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := ctx.SignIn(); err != nil {
		t.Fatal(err)
	}
	today := ctx.Habits.GetTodayHabits()
	if len(today) != 1 || !today[0].IsCompleted {
		t.Errorf("expected copied habit to be done today, got %+v", today)
	}
}

func TestInitCmd_CopyRequiresLogin(t *testing.T) {
	ctx, _, _ := setupTestSQLite(t)
	_ = ctx.Sessions.SignOut()

	if err := (&InitCmd{Source: t.TempDir()}).Run(ctx); err == nil {
		t.Error("expected copy without a signed-in profile to fail")
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, out, _ := setupTestSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database is up to date") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&MigrateCmd{Status: true}).Run(ctx); err != nil {
		t.Fatalf("migrate --status failed: %v", err)
	}
	if !strings.Contains(out.String(), "0 pending") {
		t.Errorf("unexpected status output %q", out.String())
	}

	jsonCtx, _ := newTestContext(t, storage.NewLocalStore(t.TempDir()))
	if err := (&MigrateCmd{}).Run(jsonCtx); err == nil {
		t.Error("expected migrate to reject the JSON store")
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	ctx, out := newTestContext(t, storage.NewLocalStore(t.TempDir()))

	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("unexpected whoami output %q", out.String())
	}

	out.Reset()
	if err := (&LoginCmd{Email: "Me@Example.com"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Owner:   "+session.OwnerID("me@example.com")) {
		t.Errorf("unexpected whoami output %q", out.String())
	}

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := keyring.GetProfile(); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("expected profile to be removed, got %v", err)
	}
	// Logging out twice is fine
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Errorf("second logout failed: %v", err)
	}
}

func TestLoginCmd_InvalidEmail(t *testing.T) {
	ctx, _ := newTestContext(t, storage.NewLocalStore(t.TempDir()))
	err := (&LoginCmd{Email: "not-an-email"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestValidateCmd(t *testing.T) {
	ctx, out := newTestContext(t, storage.NewLocalStore(t.TempDir()))
	signIn(t, ctx, "me@example.com")

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No conflicts detected.") {
		t.Errorf("unexpected output %q", out.String())
	}

	for i := 0; i < 2; i++ {
		if _, err := ctx.Habits.CreateHabit(context.Background(), readInput()); err != nil {
			t.Fatal(err)
		}
	}
	out.Reset()
	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `2 habits share the name "Read"`) {
		t.Errorf("expected duplicate name conflict, got %q", out.String())
	}
}

func TestDoctorCmd(t *testing.T) {
	ctx, out, _ := setupTestSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	signIn(t, ctx, "me@example.com")
	if _, err := ctx.Habits.CreateHabit(context.Background(), readInput()); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy database: %v\n%s", err, out.String())
	}
	// Missing backups is a warning, not a failure
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning, got %q", out.String())
	}

	store, _ := ctx.SQLiteStore()
	if _, err := store.GetDB().Exec(`
		INSERT INTO habit_completions (id, owner_id, habit_id, date, completed, completed_at)
		VALUES ('c-orphan', 'someone', 'missing', '2025-03-01', 1, '2025-03-01T00:00:00Z')`); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on orphaned completions")
	}
	if !strings.Contains(out.String(), "found 1 orphaned completions") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestDoctorCmd_Unreachable(t *testing.T) {
	ctx, out, _ := setupTestSQLite(t)

	// Never initialized
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail without storage")
	}
	if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED (storage not reachable)") {
		t.Errorf("unexpected output %q", out.String())
	}
	if !strings.Contains(out.String(), "✓ Clock/timezone: OK") {
		t.Errorf("expected local checks to still run, got %q", out.String())
	}
}

func TestExportAndImportIcal(t *testing.T) {
	ctx, _ := newTestContext(t, storage.NewLocalStore(t.TempDir()))
	signIn(t, ctx, "me@example.com")

	inputs := []models.HabitInput{
		readInput(),
		{Name: "Gym", Time: "06:00", Recurrence: models.Weekly{Days: models.Weekdays(time.Monday, time.Friday)}, RepeatValue: 1},
		{Name: "Rent", Time: "08:00", Recurrence: models.Monthly{Days: models.MonthDays(31)}, RepeatValue: 1},
	}
	for _, in := range inputs {
		if _, err := ctx.Habits.CreateHabit(context.Background(), in); err != nil {
			t.Fatal(err)
		}
	}

	file := filepath.Join(t.TempDir(), "habits.ics")
	if err := (&ExportIcalCmd{Output: file, Duration: 15 * time.Minute}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// Import into a different profile
	other, out := newTestContext(t, storage.NewLocalStore(t.TempDir()))
	signIn(t, other, "other@example.com")
	if _, err := other.Habits.CreateHabit(context.Background(), readInput()); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportIcalCmd{File: file}).Run(other); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 2 habit(s), skipped 1") {
		t.Errorf("unexpected output %q", out.String())
	}

	gym, err := other.Habits.Resolve("Gym")
	if err != nil {
		t.Fatalf("expected Gym to be imported: %v", err)
	}
	if gym.Time != "06:00" || gym.Recurrence != inputs[1].Recurrence {
		t.Errorf("unexpected imported habit %+v", gym)
	}
}

func TestServeCmd(t *testing.T) {
	ctx, _ := newTestContext(t, storage.NewLocalStore(t.TempDir()))

	if err := (&ServeCmd{Addr: "127.0.0.1:0"}).Run(ctx); !errors.Is(err, apperrors.ErrAuthenticationRequired) {
		t.Errorf("expected authentication error, got %v", err)
	}

	signIn(t, ctx, "me@example.com")
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx.Ctx = canceled

	if err := (&ServeCmd{Addr: "127.0.0.1:0"}).Run(ctx); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
