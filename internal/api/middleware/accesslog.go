// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/e2nav/e2nav/internal/log"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// AccessLog emits one structured log line per request, after the handler
// completed, so the full latency is captured.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		logger := log.WithComponentFromContext(r.Context(), "http")
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int(log.FieldStatus, sw.status).
			Int64(log.FieldDuration, time.Since(start).Milliseconds()).
			Msg("request")
	})
}
