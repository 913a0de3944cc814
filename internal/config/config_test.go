package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clanpulse/internal/stats"
)

func TestFromEnv_Defaults(t *testing.T) {
	unsetEnv(t, "DATA_PATH", "SNAPSHOT_FILE", "LOGS_FOLDER", "REPORTS_FOLDER", "DEFAULT_PERIOD", "ENABLE_MERMAID_CHARTS")

	base := t.TempDir()
	cfg, err := FromEnv(base)
	if err != nil {
		t.Fatalf("FromEnv() unexpected error: %v", err)
	}

	if cfg.DataPath != base {
		t.Errorf("DataPath = %q, want %q", cfg.DataPath, base)
	}
	if cfg.LogDir != filepath.Join(base, "logs") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.ReportsDir != filepath.Join(base, "reports") {
		t.Errorf("ReportsDir = %q", cfg.ReportsDir)
	}
	if cfg.SnapshotPath() != filepath.Join(base, "clan_data.json") {
		t.Errorf("SnapshotPath() = %q", cfg.SnapshotPath())
	}
	if cfg.DefaultPeriod != stats.Period7d {
		t.Errorf("DefaultPeriod = %q, want 7d", cfg.DefaultPeriod)
	}
	if cfg.EnableMermaidCharts {
		t.Errorf("Mermaid charts should be off by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	data := t.TempDir()
	abs := filepath.Join(t.TempDir(), "export.json")

	t.Setenv("DATA_PATH", data)
	t.Setenv("SNAPSHOT_FILE", abs)
	t.Setenv("LOGS_FOLDER", "/var/log/clanpulse")
	unsetEnv(t, "REPORTS_FOLDER")
	t.Setenv("DEFAULT_PERIOD", "30d")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")

	cfg, err := FromEnv("/ignored")
	if err != nil {
		t.Fatalf("FromEnv() unexpected error: %v", err)
	}

	if cfg.DataPath != data {
		t.Errorf("DataPath = %q, want %q", cfg.DataPath, data)
	}
	if cfg.SnapshotPath() != abs {
		t.Errorf("Absolute snapshot path should be kept, got %q", cfg.SnapshotPath())
	}
	if cfg.LogDir != "/var/log/clanpulse" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.DefaultPeriod != stats.Period30d {
		t.Errorf("DefaultPeriod = %q, want 30d", cfg.DefaultPeriod)
	}
	if !cfg.EnableMermaidCharts {
		t.Errorf("Expected Mermaid charts to be enabled")
	}
}

func TestFromEnv_InvalidPeriod(t *testing.T) {
	t.Setenv("DEFAULT_PERIOD", "90d")

	_, err := FromEnv(t.TempDir())
	if !errors.Is(err, stats.ErrInvalidMetric) {
		t.Errorf("Expected ErrInvalidMetric, got %v", err)
	}
}

func TestFromEnv_InvalidBool(t *testing.T) {
	unsetEnv(t, "DEFAULT_PERIOD")
	t.Setenv("ENABLE_MERMAID_CHARTS", "sometimes")

	if _, err := FromEnv(t.TempDir()); err == nil {
		t.Errorf("Expected a parse error for a malformed boolean")
	}
}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}
