// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path (optional), applies E2NAV_* environment
// overrides, fills defaults and validates. An empty path loads defaults plus
// environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		dec := yaml.NewDecoder(strings.NewReader(string(raw)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.applyDefaults()
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(cfg.DataDir, "store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv merges E2NAV_* environment variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("E2NAV_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("E2NAV_DATA"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("E2NAV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("E2NAV_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("E2NAV_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("E2NAV_REDIS_ADDR"); v != "" {
		cfg.Store.Addr = v
	}
	if v := os.Getenv("E2NAV_REDIS_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("E2NAV_RECEIVER_TIMEOUT"); v != "" {
		cfg.Receiver.Timeout = v
	}
	for env, field := range map[string]**bool{
		"E2NAV_SHOW_SCREENSHOT":   &cfg.Options.ShowScreenshot,
		"E2NAV_SHOW_PROVIDERS":    &cfg.Options.ShowProviders,
		"E2NAV_SHOW_ALL_SERVICES": &cfg.Options.ShowAllServices,
		"E2NAV_ZAP":               &cfg.Options.Zap,
	} {
		if v := os.Getenv(env); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*field = &b
			}
		}
	}
}
