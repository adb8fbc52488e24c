package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("Test warning message", "habit", "Read")
	Error("Test error message")

	logFile := Path(configDir)
	if logFile != filepath.Join(logDir, "habitcontrol.log") {
		t.Errorf("unexpected log path %s", logFile)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected warnings to be written to the log file")
	}
}

func TestInitDebugMode(t *testing.T) {
	err := Init(Config{
		Debug:     true,
		ConfigDir: filepath.Join(t.TempDir(), "config"),
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}

	Debug("Test debug message in debug mode")
	Info("Test info message in debug mode")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logInfo bool
		wantErr bool
	}{
		{name: "default is warn", level: "", logInfo: false},
		{name: "info", level: "info", logInfo: true},
		{name: "case insensitive", level: " INFO ", logInfo: true},
		{name: "error hides info", level: "error", logInfo: false},
		{name: "fatal rejected", level: "fatal", wantErr: true},
		{name: "unknown rejected", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir := t.TempDir()
			err := Init(Config{ConfigDir: configDir, Level: tt.level})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			Info("Created habit", "name", "Read")
			data, _ := os.ReadFile(Path(configDir))
			if got := strings.Contains(string(data), "Created habit"); got != tt.logInfo {
				t.Errorf("info logged = %v, want %v (log: %q)", got, tt.logInfo, data)
			}
		})
	}
}

func TestInitDebugOverridesLevel(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir(), Level: "error"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %s", Logger.GetLevel())
	}
}

func TestInitJSONFormat(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir, Format: "json"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Warn("Persistence call failed", "op", "save habit", "attempt", 1)

	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", data, err)
	}
	if entry["msg"] != "Persistence call failed" || entry["op"] != "save habit" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	previous := Logger
	if err := Init(Config{ConfigDir: t.TempDir(), Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if Logger != previous {
		t.Error("expected the previous logger to stay installed")
	}
}
