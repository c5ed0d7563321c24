package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
	"github.com/sirupsen/logrus"
)

// Config holds the application configuration.
type Config struct {
	SaveDir    string `env:"SIM_SAVE_DIR" envDefault:".saves"`
	Storage    string `env:"SIM_STORAGE" envDefault:"yaml"`
	SQLitePath string `env:"SIM_SQLITE_PATH"`
	Slot       string `env:"SIM_SLOT" envDefault:"current"`
	Seed       int64  `env:"SIM_SEED" envDefault:"0"`
	LogLevel   string `env:"SIM_LOG_LEVEL" envDefault:"info"`

	// The narrator is disabled when no key is set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"SIM_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.SaveDir, "saves.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.SaveDir == "" {
		el.Add(fmt.Errorf("SIM_SAVE_DIR must not be empty"))
	}
	switch c.Storage {
	case "yaml":
	case "sqlite":
		if c.SQLitePath == "" {
			el.Add(fmt.Errorf("SIM_SQLITE_PATH must be set for sqlite storage"))
		}
	default:
		el.Add(fmt.Errorf("SIM_STORAGE must be yaml or sqlite, got %q", c.Storage))
	}
	if c.Slot == "" {
		el.Add(fmt.Errorf("SIM_SLOT must not be empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		el.Add(fmt.Errorf("SIM_LOG_LEVEL: %w", err))
	}

	return el.Err()
}

// StoragePath is the location the configured storage backend writes to.
func (c *Config) StoragePath() string {
	if c.Storage == "sqlite" {
		return c.SQLitePath
	}
	return c.SaveDir
}

// NarratorEnabled reports whether an API key for the narrator is set.
func (c *Config) NarratorEnabled() bool {
	return c.GeminiAPIKey != ""
}
