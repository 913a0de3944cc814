package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_WritesRotatingFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	dir := filepath.Join(t.TempDir(), "logs")
	console, err := os.CreateTemp(t.TempDir(), "console")
	if err != nil {
		t.Fatal(err)
	}
	defer console.Close()

	logger, err := New(dir, true, console)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level when verbose, got %s", zerolog.GlobalLevel())
	}

	logger.Info().Str("member", "Ann").Msg("snapshot loaded")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"member":"Ann"`) {
		t.Errorf("Log file missing structured field: %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Errorf("Write probe should be removed")
	}
}

func TestNew_UnwritableDirectory(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// A regular file cannot host a log directory.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(filepath.Join(blocker, "logs"), false, os.Stderr); err == nil {
		t.Errorf("Expected an error for an impossible log directory")
	}
}
