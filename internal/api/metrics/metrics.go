// Package metrics defines and registers all custom Prometheus metrics for
// the dashboard gateway. It is the single source of truth for metric names,
// labels, and help strings; callers reference the exported vars directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// SessionBootstrapsTotal counts gate activations by outcome.
// Labels:
//   - outcome: "permitted", "denied_unauthenticated", or "denied_role"
var SessionBootstrapsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_bootstraps_total",
		Help:      "Total number of access-gate session bootstraps, by outcome.",
	},
	[]string{"outcome"},
)

// BackendRequestDuration measures round-trip time to the user backend.
// Labels:
//   - method: HTTP method
//   - path:   backend path pattern (e.g. "/api/all-user")
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the user backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// BackendErrorsTotal counts failed backend calls.
// Label:
//   - kind: "network", "auth", "not_found", "client", "server", or "decode"
var BackendErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_errors_total",
		Help:      "Total number of user-backend calls that failed, by kind.",
	},
	[]string{"kind"},
)

// DirectoryCacheTotal counts directory cache lookups.
// Label:
//   - result: "hit" or "miss"
var DirectoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_cache_total",
		Help:      "Total number of directory cache lookups, by result.",
	},
	[]string{"result"},
)

// UserMutationsTotal counts directory and profile mutations that reached the
// backend successfully.
// Label:
//   - action: "create", "update", "delete", "bulk", or "profile"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of successful user mutations, by action.",
	},
	[]string{"action"},
)
