// Package metrics defines and registers the console client's Prometheus
// metrics. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// RequestsTotal counts completed API requests.
// Labels:
//   - method: HTTP method of the call
//   - status: numeric HTTP status, "timeout", or "transport"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests, by method and outcome.",
	},
	[]string{"method", "status"},
)

// RequestDuration measures wall-clock latency of API requests.
// Label:
//   - method: HTTP method of the call
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionAuthenticated reports the current session state: 1 when
// authenticated, 0 otherwise.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "Whether the client currently holds an authenticated session.",
	},
)

// SessionTransitionsTotal counts session state transitions.
// Labels:
//   - op: "initialize", "login", "logout", "refresh", or "external"
//   - result: "ok" or "error"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session transitions, by operation and result.",
	},
	[]string{"op", "result"},
)
