// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/e2nav/e2nav/internal/api"
	"github.com/e2nav/e2nav/internal/config"
	e2log "github.com/e2nav/e2nav/internal/log"
	"github.com/e2nav/e2nav/internal/nav"
	"github.com/e2nav/e2nav/internal/openwebif"
	"github.com/e2nav/e2nav/internal/registry"
	"github.com/e2nav/e2nav/internal/store"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe logging defaults until the config is loaded.
	e2log.Configure(e2log.Config{
		Level:   "info",
		Service: "e2nav",
		Version: version,
	})
	logger := e2log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit via -config, otherwise ${E2NAV_DATA}/config.yaml
	// when it exists, so UI-saved config survives restarts.
	effectivePath := strings.TrimSpace(*configPath)
	if effectivePath == "" {
		dataDir := strings.TrimSpace(os.Getenv("E2NAV_DATA"))
		if dataDir == "" {
			dataDir = "/tmp"
		}
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectivePath = autoPath
		}
	}

	cfg, err := config.Load(effectivePath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectivePath).
			Msg("failed to load configuration")
	}

	e2log.SetLevel(cfg.LogLevel)

	if effectivePath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectivePath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().
			Err(err).
			Str("data_dir", cfg.DataDir).
			Msg("failed to create data directory")
	}

	st, err := store.Open(store.Config{
		Backend:  cfg.Store.Backend,
		Path:     cfg.Store.Path,
		Addr:     cfg.Store.Addr,
		Password: cfg.Store.Password,
		DB:       cfg.Store.DB,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "store.open_failed").
			Str("backend", cfg.Store.Backend).
			Msg("failed to open receiver store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("store close failed")
		}
	}()

	mgr := config.NewManager(effectivePath, cfg)
	reg := registry.New(st)

	clientOpts := openwebif.Options{
		Timeout:        cfg.Receiver.ClientTimeout(),
		UserAgent:      cfg.Receiver.UserAgent,
		RateLimit:      rate.Limit(cfg.Receiver.RateLimit),
		RateLimitBurst: cfg.Receiver.RateBurst,
	}
	if clientOpts.UserAgent == "" {
		clientOpts.UserAgent = "e2nav/" + version
	}
	builder := nav.New(reg, func(base string) nav.ReceiverAPI {
		return openwebif.New(base, clientOpts)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.New(mgr, reg, builder).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Str("store", cfg.Store.Backend).
		Msg("starting e2nav")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := mgr.Watch(gctx); err != nil {
			logger.Warn().Err(err).Msg("config watch stopped")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "server.failed").
			Msg("server failed")
	}

	logger.Info().Msg("server exiting")
}
