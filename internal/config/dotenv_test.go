package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestDotenvFeedsConfig(t *testing.T) {
	unsetEnv(t, "DATA_PATH", "SNAPSHOT_FILE", "DEFAULT_PERIOD", "ENABLE_MERMAID_CHARTS", "LOGS_FOLDER", "REPORTS_FOLDER")

	dir := t.TempDir()
	content := "SNAPSHOT_FILE='clan export \"weekly\".json'\nDEFAULT_PERIOD=30d\nENABLE_MERMAID_CHARTS=1\n"
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := godotenv.Load(envPath); err != nil {
		t.Fatalf("Error loading env: %v", err)
	}

	cfg, err := FromEnv(dir)
	if err != nil {
		t.Fatalf("FromEnv() unexpected error: %v", err)
	}

	expected := filepath.Join(dir, `clan export "weekly".json`)
	if cfg.SnapshotPath() != expected {
		t.Errorf("Expected %s, got %s", expected, cfg.SnapshotPath())
	}
	if cfg.DefaultPeriod != "30d" || !cfg.EnableMermaidCharts {
		t.Errorf("Unexpected config from .env: %+v", cfg)
	}
}
