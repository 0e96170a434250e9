// Package config loads executor configuration from YAML. The file supplies
// layer tuning and an optional strategy override; everything in it can also
// be set programmatically with builder options, which take precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Retry    RetryConfig    `yaml:"retry"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cache    CacheConfig    `yaml:"cache"`
	Strategy StrategyConfig `yaml:"strategy"`
}

// RetryConfig tunes the retry layer.
type RetryConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxRetries   uint64        `yaml:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Multiplier   float64       `yaml:"multiplier"`
}

// LoggingConfig tunes the logging layer.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Scope   string `yaml:"scope"`
}

// CacheConfig tunes the response cache layer.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// StrategyConfig overrides JSON output strategy auto-detection.
// Mode is "schema", "prompt", or empty for auto-detection.
type StrategyConfig struct {
	Mode             string `yaml:"mode"`
	Strict           bool   `yaml:"strict"`
	UseSystemMessage bool   `yaml:"use_system_message"`
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Retry.Enabled {
		if c.Retry.Multiplier != 0 && c.Retry.Multiplier < 1 {
			return fmt.Errorf("retry.multiplier must be >= 1, got %v", c.Retry.Multiplier)
		}
		if c.Retry.InitialDelay < 0 || c.Retry.MaxDelay < 0 {
			return fmt.Errorf("retry delays must be non-negative")
		}
	}
	switch c.Strategy.Mode {
	case "", "schema", "prompt":
	default:
		return fmt.Errorf("strategy.mode must be schema, prompt, or empty, got %q", c.Strategy.Mode)
	}
	return nil
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
