// Package metrics defines and registers all custom Prometheus metrics for the
// Bookbite web front end. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookbite"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls from the gateway to the backend API.
// Labels:
//   - operation: gateway operation (e.g. "create_customer", "list_tables")
//   - outcome: "ok", "not_found", "error" (non-2xx) or "unreachable"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests issued to the reservation backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// ProxyRequestsTotal counts proxy route outcomes.
// Labels:
//   - route: "restaurants" or "restaurant_tables"
//   - outcome: "ok", "not_found" or "error"
var ProxyRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_requests_total",
		Help:      "Total number of proxied backend requests, by route and outcome.",
	},
	[]string{"route", "outcome"},
)

// ── Wizard metrics ────────────────────────────────────────────────────────────

// WizardSubmissionsTotal counts reservation wizard submissions.
// Label:
//   - result: "success", "invalid", "in_flight" or "failed"
var WizardSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_submissions_total",
		Help:      "Total number of reservation wizard submissions, by result.",
	},
	[]string{"result"},
)

// CompensationsTotal counts processed compensation jobs.
// Label:
//   - result: "compensated", "failed" or "dropped"
var CompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compensations_total",
		Help:      "Total number of orphaned-customer compensation jobs, by result.",
	},
	[]string{"result"},
)

// CompensationQueueDepth tracks jobs waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CompensationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "compensation_queue_depth",
		Help:      "Current number of compensation jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - event: "created", "login", "logout"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of browser session events, by type.",
	},
	[]string{"event"},
)
