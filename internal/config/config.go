// Package config loads daemon settings from an optional YAML file.
// Command-line flags and environment variables override file values;
// the file only supplies what they leave unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds daemon settings.
type Config struct {
	// Backend endpoints
	BackendURL string `yaml:"backend_url"`
	EventsURL  string `yaml:"events_url"`

	// Backend client behavior
	InvokeTimeout time.Duration `yaml:"invoke_timeout"`
	MaxRetries    int           `yaml:"max_retries"`

	// Observability
	MetricsAddr string `yaml:"metrics_addr"`

	// Namespace used for metric names
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// Default returns the built-in settings used when no file or overrides
// are present.
func Default() Config {
	return Config{
		BackendURL:       "http://127.0.0.1:7113",
		EventsURL:        "ws://127.0.0.1:7113/events",
		InvokeTimeout:    30 * time.Second,
		MaxRetries:       3,
		MetricsAddr:      ":9090",
		MetricsNamespace: "pricewatch",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty")
	}
	if c.InvokeTimeout < 0 {
		return fmt.Errorf("invoke_timeout must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}
