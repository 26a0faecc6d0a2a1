// Package config loads client settings from ~/.tickit/config.toml with
// environment overrides. Missing file means defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Environment overrides.
const (
	EnvAPIURL = "TICKIT_API_URL"
)

// Defaults.
const (
	DefaultTimeoutSeconds = 30
	DefaultLogLevel       = "warn"
)

// Config holds the client configuration.
type Config struct {
	APIURL         string `toml:"api_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	LogLevel       string `toml:"log_level"`

	// Dir is where credentials and config live (computed, not persisted).
	Dir string `toml:"-"`
}

// Load reads dir/config.toml, applying defaults and env overrides. An
// empty dir means ~/.tickit.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("home: %w", err)
		}
		dir = filepath.Join(home, ".tickit")
	}

	cfg := &Config{
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       DefaultLogLevel,
		Dir:            dir,
	}

	path := filepath.Join(dir, "config.toml")
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.Dir = dir

	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		cfg.APIURL = env
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return cfg, nil
}

// ParseLevel maps the configured log level onto charmbracelet/log,
// falling back to warn for unknown values.
func (c *Config) ParseLevel() log.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning", "":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
