// SPDX-License-Identifier: MIT

// Package store provides the key-value persistence port backing the receiver
// registry, with Badger, Redis and atomic-file implementations.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Store persists string records under string keys.
type Store interface {
	// Get returns the record and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by the factory.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// ErrUnknownBackend reports an unrecognized backend name in configuration.
var ErrUnknownBackend = errors.New("store: unknown backend")

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Badger / file
	Path string

	// Redis
	Addr     string
	Password string
	DB       int
}

// Open constructs the configured backend. An empty backend name defaults to
// Badger.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendBadger:
		return OpenBadger(cfg.Path)
	case BackendRedis:
		return OpenRedis(RedisConfig{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	case BackendFile:
		return OpenFile(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
