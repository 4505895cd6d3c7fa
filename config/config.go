// Package config provides the process-level configuration for the search
// service. Index behavior is fixed by contract; only the transport is
// configurable.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the HTTP listen port when none is configured.
	DefaultPort = 8001

	// DefaultMaxBodyBytes bounds request bodies. Bulk imports are expected
	// to reach several gigabytes, so the default is generous.
	DefaultMaxBodyBytes = int64(8) << 30
)

// Config holds the server settings.
type Config struct {
	Port         int   `yaml:"port"`
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Port:         DefaultPort,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Load reads a YAML config file. Absent or non-positive values fall back
// to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills in default values for unset or invalid fields.
func (c *Config) ApplyDefaults() {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
}
