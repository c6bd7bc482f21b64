// Package metrics defines the Prometheus metrics for remote user calls and the
// user store. Metrics register with the default registry on import and are
// exposed through promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	usecase "user-sync/internal/usecase/user"
)

const namespace = "usersync"

// ── Remote call metrics ───────────────────────────────────────────────────────

// RemoteRequestsTotal counts finished remote calls.
// Labels:
//   - op: "list", "create", "update" or "delete"
//   - outcome: "ok" or the error kind (e.g. "request_failed", "decoding_error")
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of remote user service calls, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// RemoteRequestDuration measures the wall time of one remote call.
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote user service calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreUsers tracks the length of the in-memory user list.
var StoreUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_users",
		Help:      "Number of users currently held by the store.",
	},
)

// StoreInflight is 1 while the store is loading and 0 otherwise.
var StoreInflight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_inflight",
		Help:      "Whether the store has an outstanding remote call (1) or not (0).",
	},
)

// StoreObserver keeps the store gauges in line with every published snapshot.
func StoreObserver() usecase.Observer {
	return func(ev usecase.Event) {
		StoreUsers.Set(float64(len(ev.Snapshot.Users)))
		if ev.Snapshot.Loading {
			StoreInflight.Set(1)
		} else {
			StoreInflight.Set(0)
		}
	}
}
