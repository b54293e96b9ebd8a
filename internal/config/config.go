// Package config loads the YAML settings file for the knights CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LIAMBB/knights-travails/internal/logging"
)

// Config is the top-level settings document.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// StoreConfig controls the SQLite path cache. Disabled by default: a search is
// cheap and the CLI works without touching disk.
type StoreConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Path      string  `yaml:"path"`
	MaxSizeGB float64 `yaml:"max_size_gb"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Enabled:   false,
			Path:      "./knights.db",
			MaxSizeGB: 1,
		},
	}
}

// Load reads path on top of Default. An empty path, or a path that does not
// exist, yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return errors.New("store.path is required when the store is enabled")
	}
	if c.Store.MaxSizeGB < 0 {
		return fmt.Errorf("store.max_size_gb must not be negative, got %v", c.Store.MaxSizeGB)
	}
	return nil
}

// LoggingConfig maps the log section onto a logging.Config.
func (c Config) LoggingConfig() logging.Config {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.Config{
		Level:   level,
		JSON:    c.Log.Format == "json",
		Service: "knights",
	}
}
