// SPDX-License-Identifier: MIT

package nav

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "e2nav_list_requests_total",
		Help: "Navigation list fetches by view and outcome",
	}, []string{"view", "outcome"})

	entriesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "e2nav_entries_skipped_total",
		Help: "Service entries dropped during classification",
	}, []string{"reason"})

	zapAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "e2nav_zap_attempts_total",
		Help: "Best-effort zap calls by outcome",
	}, []string{"outcome"})
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomeEmpty = "empty"

	reasonMarker       = "marker"
	reasonParseFailure = "parse_failure"
)
