package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const configFile = "config.yaml"

// Config holds engine-level settings for the analytics library.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values.
// Tenant credentials never appear here; they arrive per request in the
// tenant connection config supplied by the caller.
type Config struct {
	// Tables holds system-default table names, used when a tenant
	// config does not override them.
	Tables TableDefaults `yaml:"tables"`

	// Pool holds sizing for per-tenant connection pools.
	Pool PoolConfig `yaml:"pool"`

	// Retry tunes backoff for pool creation.
	Retry RetryConfig `yaml:"retry"`
}

// TableDefaults holds system-default names for the two logical tables.
type TableDefaults struct {
	Conversations string `yaml:"conversations" env:"ANALYTICS_CONVERSATIONS_TABLE" env-default:"chat_conversations"`
	Messages      string `yaml:"messages" env:"ANALYTICS_MESSAGES_TABLE" env-default:"chat_messages"`
}

// PoolConfig holds sizing for per-tenant pgx pools.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" env:"ANALYTICS_POOL_MAX_CONNS" env-default:"10"`
	MinConns int32 `yaml:"min_conns" env:"ANALYTICS_POOL_MIN_CONNS" env-default:"1"`
}

// RetryConfig tunes the backoff applied when creating a tenant pool.
// Query errors are never retried; they propagate to the caller.
type RetryConfig struct {
	MaxRetries     int `yaml:"max_retries" env:"ANALYTICS_RETRY_MAX" env-default:"3"`
	InitialDelayMs int `yaml:"initial_delay_ms" env:"ANALYTICS_RETRY_INITIAL_DELAY_MS" env-default:"100"`
	MaxDelayMs     int `yaml:"max_delay_ms" env:"ANALYTICS_RETRY_MAX_DELAY_MS" env-default:"5000"`
}

// Load reads configuration from config.yaml if present, otherwise from
// environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configFile); err == nil {
		if err := cleanenv.ReadConfig(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}
