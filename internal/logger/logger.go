// Package logger writes habitcontrol's diagnostic log to a rotating file under
// the config directory.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitcontrol/internal/constants"
)

// Logger is the global logger instance; nil until Init.
var Logger *log.Logger

// Config holds logger configuration
type Config struct {
	// Debug forces the debug level and mirrors the log to stderr
	Debug     bool
	ConfigDir string
	// Level is one of debug, info, warn, error; empty means warn
	Level string
	// Format is one of text, json, logfmt; empty means text
	Format string
}

var formats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// Path returns the log file for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func (c Config) level() (log.Level, error) {
	if c.Debug {
		return log.DebugLevel, nil
	}
	if strings.TrimSpace(c.Level) == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(c.Level)))
	if err != nil || level == log.FatalLevel {
		return 0, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", c.Level)
	}
	return level, nil
}

func (c Config) formatter() (log.Formatter, error) {
	name := strings.ToLower(strings.TrimSpace(c.Format))
	if name == "" {
		return log.TextFormatter, nil
	}
	f, ok := formats[name]
	if !ok {
		return 0, fmt.Errorf("invalid log format %q (expected text, json or logfmt)", c.Format)
	}
	return f, nil
}

// Init validates cfg and installs the global logger. A bad level or format
// leaves the previous logger in place.
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}
	formatter, err := cfg.formatter()
	if err != nil {
		return err
	}

	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
		Formatter:       formatter,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
