package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitcontrol/internal/cli"
	"github.com/julianstephens/habitcontrol/internal/cli/backups"
	"github.com/julianstephens/habitcontrol/internal/cli/habits"
	"github.com/julianstephens/habitcontrol/internal/cli/system"
	"github.com/julianstephens/habitcontrol/internal/constants"
	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/keyring"
	"github.com/julianstephens/habitcontrol/internal/logger"
	"github.com/julianstephens/habitcontrol/internal/session"
	"github.com/julianstephens/habitcontrol/internal/storage"
	"github.com/julianstephens/habitcontrol/internal/storage/postgres"
)

// keyringTarget selects the PostgreSQL connection string stored in the OS keyring.
const keyringTarget = "keyring"

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"SQLite file, JSON store directory or PostgreSQL connection string. Use 'keyring' for the connection string saved with 'config set-connection'. Credentials must NOT be embedded in the connection string." type:"string" default:"${store_path}" env:"HABITCONTROL_STORE"`
	ConfigDir string `help:"Directory for logs and settings." type:"path" default:"${config_dir}"`
	Debug     bool   `help:"Enable debug logging to stderr." env:"HABITCONTROL_DEBUG"`
	LogLevel  string `help:"Log file level (debug, info, warn, error)." env:"HABITCONTROL_LOG_LEVEL" default:"warn"`
	LogFormat string `help:"Log file format." enum:"text,json,logfmt" env:"HABITCONTROL_LOG_FORMAT" default:"text"`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitcontrol storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Login    system.LoginCmd    `cmd:"" help:"Sign in with an email address."`
	Logout   system.LogoutCmd   `cmd:"" help:"Sign out of the current profile."`
	Whoami   system.WhoamiCmd   `cmd:"" help:"Show the signed-in profile."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd    `cmd:"" help:"Manage habits."`
	Today    habits.TodayCmd    `cmd:"" help:"Show today's habits."`
	Day      habits.DayCmd      `cmd:"" help:"Show the habits for a day."`
	Done     habits.DoneCmd     `cmd:"" help:"Mark a habit done."`
	Undone   habits.UndoneCmd   `cmd:"" help:"Mark a habit not done."`
	Log      habits.LogCmd      `cmd:"" help:"Show a completion grid for recent days."`
	Stats    habits.StatsCmd    `cmd:"" help:"Show completion rates."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored habits for conflicts."`
	Export   system.ExportCmd   `cmd:"" help:"Export habits."`
	Import   system.ImportCmd   `cmd:"" help:"Import habits."`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the signed-in profile's habits over HTTP."`
	Conn     system.ConfigCmd   `cmd:"" name:"config" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// Commands that manage storage or the session themselves.
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"login":   true,
	"logout":  true,
	"whoami":  true,
	"config":  true,
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Recurring habit scheduler and completion tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":    constants.Version,
			"store_path": constants.DefaultStorePath,
			"config_dir": constants.DefaultConfigDir,
			"serve_addr": constants.DefaultServeAddr,
		},
	)

	logCfg := logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: CLI.ConfigDir,
		Level:     CLI.LogLevel,
		Format:    CLI.LogFormat,
	}
	if err := logger.Init(logCfg); err != nil {
		ctx.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Logging to file", "path", logger.Path(CLI.ConfigDir), "level", CLI.LogLevel)

	store, err := openStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, session.NewKeyringProvider())

	command := strings.Fields(ctx.Command())[0]
	switch {
	case skipLoad[command]:
	case command == "doctor":
		// doctor reports an unreachable store itself
		if err := store.Load(); err == nil {
			if err := appCtx.SignIn(); err != nil {
				logger.Warn("Failed to sign in", "error", err)
			}
		}
	default:
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		if err := appCtx.SignIn(); err != nil {
			apperrors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// openStore picks the provider for target. The keyring target may carry a
// password, so it bypasses the embedded credentials check.
func openStore(target string) (storage.Provider, error) {
	if target == keyringTarget {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return postgres.New(connStr), nil
	}
	return storage.Open(expandHome(target))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
