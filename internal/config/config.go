package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const appDir = "jotlist"

// Config holds runtime settings. Env values are read first; command-line
// flags bound to the same fields override them.
type Config struct {
	DBPath   string `env:"JOTLIST_DB_PATH"`
	LogFile  string `env:"JOTLIST_LOG_FILE"`
	LogLevel string `env:"JOTLIST_LOG_LEVEL" envDefault:"info"`
	Theme    string `env:"JOTLIST_THEME" envDefault:"classic"`
	NoColor  bool   `env:"JOTLIST_NO_COLOR"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Finalize fills empty paths with defaults under the user config dir.
func (c *Config) Finalize() error {
	if c.DBPath != "" && c.LogFile != "" {
		return nil
	}
	dir, err := DataDir()
	if err != nil {
		return err
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "items.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dir, "jotlist.log")
	}
	return nil
}

// DataDir is where the database and log live by default.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(base, appDir), nil
}
