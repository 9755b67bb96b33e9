// SPDX-License-Identifier: MIT

// Package middleware provides the canonical HTTP ingress middleware stack.
package middleware

import (
	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical middleware stack.
type StackConfig struct {
	EnableMetrics   bool
	EnableLogging   bool
	RateLimitPerMin int // 0 disables rate limiting
}

// NewRouter constructs a chi router with the canonical stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the stack to r in a fixed order: recoverer outermost,
// then correlation, observability and rate limiting.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer)
	r.Use(RequestID)
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.EnableLogging {
		r.Use(AccessLog)
	}
	if cfg.RateLimitPerMin > 0 {
		r.Use(RateLimit(cfg.RateLimitPerMin))
	}
}
