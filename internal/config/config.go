// SPDX-License-Identifier: MIT

// Package config provides configuration management for e2nav.
package config

import (
	"fmt"
	"time"
)

// Config is the effective runtime configuration after merging defaults, the
// YAML file and environment overrides.
type Config struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
	DataDir    string `yaml:"dataDir,omitempty"`
	LogLevel   string `yaml:"logLevel,omitempty"`

	Store    StoreConfig    `yaml:"store,omitempty"`
	Receiver ReceiverConfig `yaml:"receiver,omitempty"`
	Options  Options        `yaml:"options,omitempty"`
	API      APIConfig      `yaml:"api,omitempty"`
}

// StoreConfig selects the key-value store backend.
type StoreConfig struct {
	Backend  string `yaml:"backend,omitempty"` // "badger" (default), "redis", "file"
	Path     string `yaml:"path,omitempty"`
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// ReceiverConfig tunes the OpenWebif client shared by all receivers.
type ReceiverConfig struct {
	Timeout   string `yaml:"timeout,omitempty"` // e.g. "10s"
	UserAgent string `yaml:"userAgent,omitempty"`
	RateLimit int    `yaml:"rateLimit,omitempty"` // requests/sec per receiver
	RateBurst int    `yaml:"rateBurst,omitempty"`
}

// Options are the user-facing navigation toggles. Pointers distinguish "not
// set" from "explicitly false"; every toggle defaults to true.
type Options struct {
	ShowScreenshot  *bool `yaml:"showScreenshot,omitempty"`
	ShowProviders   *bool `yaml:"showProviders,omitempty"`
	ShowAllServices *bool `yaml:"showAllServices,omitempty"`
	Zap             *bool `yaml:"zap,omitempty"` // zap before channel switch
}

// APIConfig holds API server settings.
type APIConfig struct {
	RateLimit RateLimitConfig `yaml:"rateLimit,omitempty"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	PerMin  *int  `yaml:"requestsPerMinute,omitempty"`
}

const (
	defaultListenAddr = ":8088"
	defaultDataDir    = "./data"
	defaultTimeout    = 10 * time.Second
	defaultRateLimit  = 10
	defaultRateBurst  = 20
	defaultAPIPerMin  = 120
)

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// ShowScreenshotOn reports the effective toggle value.
func (o Options) ShowScreenshotOn() bool { return boolOr(o.ShowScreenshot, true) }

// ShowProvidersOn reports the effective toggle value.
func (o Options) ShowProvidersOn() bool { return boolOr(o.ShowProviders, true) }

// ShowAllServicesOn reports the effective toggle value.
func (o Options) ShowAllServicesOn() bool { return boolOr(o.ShowAllServices, true) }

// ZapOn reports whether a zap call precedes channel switches.
func (o Options) ZapOn() bool { return boolOr(o.Zap, true) }

// RateLimitEnabled reports the effective API rate limit toggle.
func (a APIConfig) RateLimitEnabled() bool { return boolOr(a.RateLimit.Enabled, true) }

// RateLimitPerMin reports the effective per-minute request budget.
func (a APIConfig) RateLimitPerMin() int { return intOr(a.RateLimit.PerMin, defaultAPIPerMin) }

// ClientTimeout parses the receiver timeout, falling back to the default on
// absent or unparsable values.
func (r ReceiverConfig) ClientTimeout() time.Duration {
	if r.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// applyDefaults fills unset scalar fields.
func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Receiver.RateLimit <= 0 {
		c.Receiver.RateLimit = defaultRateLimit
	}
	if c.Receiver.RateBurst <= 0 {
		c.Receiver.RateBurst = defaultRateBurst
	}
}

// Validate rejects configurations the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Receiver.Timeout != "" {
		if _, err := time.ParseDuration(c.Receiver.Timeout); err != nil {
			return fmt.Errorf("config: receiver.timeout: %w", err)
		}
	}
	switch c.Store.Backend {
	case "", "badger", "file":
	case "redis":
		if c.Store.Addr == "" {
			return fmt.Errorf("config: store.addr required for redis backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}
