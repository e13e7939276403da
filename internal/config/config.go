// Package config handles loading the nexus config file and environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config is the nexus configuration: values come from defaults, then the
// TOML config file, then NEXUS_* environment variables, last one wins.
type Config struct {
	Database struct {
		// Path to the workspace store; empty uses the XDG data dir
		Path string `toml:"path" env:"PATH"`
	} `toml:"database" envPrefix:"DATABASE_"`

	Sync struct {
		// RefreshDelayMS is how long a save waits before re-syncing
		RefreshDelayMS int `toml:"refresh-delay-ms" env:"REFRESH_DELAY_MS"`
		// FetchTimeoutMS bounds a single fetch-all; zero disables the bound
		FetchTimeoutMS int `toml:"fetch-timeout-ms" env:"FETCH_TIMEOUT_MS"`
	} `toml:"sync" envPrefix:"SYNC_"`
}

// Load reads configuration. An empty path uses the default location; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Sync.RefreshDelayMS = 1200
	cfg.Sync.FetchTimeoutMS = 10000

	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if raw, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "NEXUS_"}); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RefreshDelay returns the post-save refresh delay as a duration
func (c *Config) RefreshDelay() time.Duration {
	return time.Duration(c.Sync.RefreshDelayMS) * time.Millisecond
}

// FetchTimeout returns the fetch-all bound as a duration
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Sync.FetchTimeoutMS) * time.Millisecond
}

func defaultConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "nexus", "config.toml"), nil
}
