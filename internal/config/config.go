// Package config loads process settings from the environment, with an
// optional storyline.yml file underneath.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config models the runtime settings of the server process. None of it
// affects request-pipeline semantics.
type Config struct {
	ListenAddr     string        `yaml:"listen_addr"`
	BasePath       string        `yaml:"base_path"`
	DBPath         string        `yaml:"db_path"`
	DBMaxConns     int           `yaml:"db_max_conns"`
	HealthInterval time.Duration `yaml:"health_interval"`
	LogLevel       string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ListenAddr:     "127.0.0.1:8080",
		BasePath:       "/v1",
		DBPath:         "storyline.db",
		HealthInterval: 2 * time.Second,
		LogLevel:       "info",
	}
}

// Load builds the config from defaults, an optional YAML file, and
// STORYLINE_* environment variables, in increasing precedence.
func Load(file string) (*Config, error) {
	cfg := Default()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", file, err)
		}
	}
	if v := viper.GetString("listen-addr"); v != "" {
		cfg.ListenAddr = v
	}
	if v := viper.GetString("base-path"); v != "" {
		cfg.BasePath = v
	}
	if v := viper.GetString("db-path"); v != "" {
		cfg.DBPath = v
	}
	if v := viper.GetInt("db-max-conns"); v > 0 {
		cfg.DBMaxConns = v
	}
	if v := viper.GetDuration("health-interval"); v > 0 {
		cfg.HealthInterval = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, cfg.Validate()
}

// Validate ensures required settings are present.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	return nil
}
