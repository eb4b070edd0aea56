// Package metrics defines and registers all custom Prometheus metrics for
// the session core. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics self-register with the default registry via promauto; expose them
// by mounting the standard handler on the embedding surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "persona_session"

// SessionTransitionsTotal counts session state machine transitions.
// Labels:
//   - transition: "initialize", "login", "logout", "refresh"
//   - result: "authenticated", "unauthenticated", "error", "ignored", "rejected"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of session lifecycle transitions, by transition and result.",
	},
	[]string{"transition", "result"},
)

// GatewayRequestsTotal counts platform API calls made by the gateway.
// Labels:
//   - operation: "login", "current_user", "subscriptions", "logout", "refresh", "profile"
//   - outcome: "ok", "rejected", "unauthorized", "network_error"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of platform API requests, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// GuardDecisionsTotal counts route guard verdicts.
// Label:
//   - decision: "allow", "deny", "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by verdict.",
	},
	[]string{"decision"},
)

// TransitionDuration measures how long a session transition takes end-to-end,
// including its remote calls.
// Label:
//   - transition: "initialize", "login", "logout"
var TransitionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transition_duration_seconds",
		Help:      "Duration of session transitions from request to published state.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"transition"},
)
