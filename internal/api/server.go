// SPDX-License-Identifier: MIT

// Package api exposes the navigation engine to the UI shell over JSON/HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/e2nav/e2nav/internal/api/middleware"
	"github.com/e2nav/e2nav/internal/config"
	"github.com/e2nav/e2nav/internal/log"
	"github.com/e2nav/e2nav/internal/nav"
	"github.com/e2nav/e2nav/internal/registry"
)

// Server wires the registry and navigation builder into HTTP routes.
type Server struct {
	cfg      *config.Manager
	registry *registry.Registry
	builder  *nav.Builder
	logger   zerolog.Logger
}

// New creates a Server.
func New(cfg *config.Manager, reg *registry.Registry, builder *nav.Builder) *Server {
	return &Server{
		cfg:      cfg,
		registry: reg,
		builder:  builder,
		logger:   log.WithComponent("api"),
	}
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() http.Handler {
	snapshot := s.cfg.Snapshot()

	perMin := 0
	if snapshot.API.RateLimitEnabled() {
		perMin = snapshot.API.RateLimitPerMin()
	}
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:   true,
		EnableLogging:   true,
		RateLimitPerMin: perMin,
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/receivers", s.handleListReceivers)
		r.Post("/receivers", s.handleAddReceiver)
		r.Delete("/receivers/{index}", s.handleRemoveReceiver)
		r.Get("/browse", s.handleBrowse)
		r.Post("/play", s.handlePlay)
		r.Get("/current", s.handleCurrent)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
