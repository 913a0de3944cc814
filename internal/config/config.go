package config

import (
	"fmt"
	"os"
	"path/filepath"

	"clanpulse/internal/stats"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string       `env:"DATA_PATH"`
	SnapshotFile        string       `env:"SNAPSHOT_FILE"         envDefault:"clan_data.json"`
	LogDir              string       `env:"LOGS_FOLDER"`
	ReportsDir          string       `env:"REPORTS_FOLDER"`
	DefaultPeriod       stats.Period `env:"DEFAULT_PERIOD"        envDefault:"7d"`
	EnableMermaidCharts bool         `env:"ENABLE_MERMAID_CHARTS" envDefault:"false"`
}

// SnapshotPath resolves the snapshot file against DataPath unless it is
// already absolute.
func (c *AppConfig) SnapshotPath() string {
	if filepath.IsAbs(c.SnapshotFile) {
		return c.SnapshotFile
	}
	return filepath.Join(c.DataPath, c.SnapshotFile)
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	cfg, err := FromEnv(exeDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cfg.LogDir).Msg("Failed to create log directory")
	}
	return cfg, nil
}

// FromEnv parses the process environment into an AppConfig. Paths left
// unset are derived from baseDir, or the working directory when baseDir is
// empty.
func FromEnv(baseDir string) (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataPath == "" {
		if baseDir != "" {
			cfg.DataPath = baseDir
		} else {
			cfg.DataPath = "."
		}
	}
	if cfg.SnapshotFile == "" {
		cfg.SnapshotFile = "clan_data.json"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataPath, "logs")
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = filepath.Join(cfg.DataPath, "reports")
	}

	period, err := stats.ParsePeriod(string(cfg.DefaultPeriod))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_PERIOD: %w", err)
	}
	cfg.DefaultPeriod = period

	return &cfg, nil
}
