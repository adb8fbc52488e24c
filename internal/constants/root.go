package constants

import "time"

const (
	AppName            = "habitcontrol"
	DefaultKeyringUser = "database-connection"
	ProfileKeyringUser = "profile"
	DefaultConfigDir   = "~/.config/habitcontrol"
	DefaultStorePath   = "~/.config/habitcontrol/habitcontrol.db"
	DefaultConfigFile  = "~/.config/habitcontrol/config.json"
	DefaultServeAddr   = "127.0.0.1:8080"
	Version            = "v0.3.0"

	// DateFormat is the calendar date format used for completions (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the wall-clock format used for habit times (HH:MM)
	TimeFormat = "15:04"

	// Key-value persistence keys
	HabitsKey      = "@habits"
	CompletionsKey = "@completions"

	// Persistence retry policy
	PersistMaxRetries = 3
	PersistRetryDelay = 100 * time.Millisecond
	// PersistTimeout bounds one interactive mutation including its retries
	PersistTimeout = 10 * time.Second

	// Completion rate display bands
	RateGoodThreshold = 70.0
	RateFairThreshold = 40.0

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitcontrol-"
	BackupFileSuffix = ".db"
)
