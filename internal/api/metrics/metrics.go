// Package metrics defines all custom Prometheus metrics for the catalog
// admin service. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry via promauto
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog_admin"

// CatalogRequestsTotal counts relayed requests to the remote catalog API.
// Labels:
//   - operation: client method name (e.g. "search_theses", "restore_archived_thesis")
//   - outcome: "ok" or "error"
var CatalogRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_requests_total",
		Help:      "Total number of requests relayed to the remote catalog API.",
	},
	[]string{"operation", "outcome"},
)

// CatalogRequestDuration measures the end-to-end latency of remote catalog
// calls, including error responses.
var CatalogRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_request_duration_seconds",
		Help:      "Duration of requests to the remote catalog API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// UserMutationsTotal counts account mutations.
// Labels:
//   - op: "add", "update", "delete", "change_password", "update_profile"
//   - outcome: "ok" or "error"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of user account mutations, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "ok" or "denied"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionRefreshesTotal counts current-user session refetches.
// Label:
//   - result: the resolved session state ("authenticated" or "anonymous")
var SessionRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refreshes_total",
		Help:      "Total number of session refetches, by resolved state.",
	},
	[]string{"result"},
)

// StatsCacheTotal counts dashboard statistics cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of stats cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
