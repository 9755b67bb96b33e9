// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/e2nav/e2nav/internal/log"
)

// Manager holds the current configuration snapshot and hot-reloads the
// runtime toggles when the config file changes. Structural settings (listen
// address, store backend) require a restart and are ignored on reload.
type Manager struct {
	path string
	cur  atomic.Pointer[Config]
}

// NewManager wraps an already-loaded configuration.
func NewManager(path string, cfg *Config) *Manager {
	m := &Manager{path: path}
	m.cur.Store(cfg)
	return m
}

// Snapshot returns the current configuration. The returned value must be
// treated as read-only.
func (m *Manager) Snapshot() *Config {
	return m.cur.Load()
}

// Watch blocks until ctx is done, swapping in the navigation toggles from
// the config file whenever it is rewritten. It is a no-op when the manager
// was created without a file path.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		<-ctx.Done()
		return nil
	}
	logger := log.WithComponent("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors and renameio-style writers replace the
	// file, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		return err
	}

	var debounce *time.Timer
	reload := func() {
		cfg, err := Load(m.path)
		if err != nil {
			logger.Warn().Err(err).Msg("config reload failed, keeping previous snapshot")
			return
		}
		prev := m.cur.Load()
		next := *prev
		next.Options = cfg.Options
		next.LogLevel = cfg.LogLevel
		m.cur.Store(&next)
		log.SetLevel(next.LogLevel)
		logger.Info().
			Bool("show_screenshot", next.Options.ShowScreenshotOn()).
			Bool("show_providers", next.Options.ShowProvidersOn()).
			Bool("show_all_services", next.Options.ShowAllServicesOn()).
			Bool("zap", next.Options.ZapOn()).
			Msg("config reloaded")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(m.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}
