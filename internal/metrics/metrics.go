// Package metrics holds the service's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Committed order status transitions by resulting status",
		},
		[]string{"new_status"},
	)

	TransitionConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_transition_conflicts_total",
			Help: "Status writes rejected because the precondition no longer held",
		},
	)

	ClaimAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_claim_attempts_total",
			Help: "Courier claim attempts by outcome (won, lost, rejected)",
		},
		[]string{"outcome"},
	)

	NotificationRetryQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_retry_queue_depth",
			Help: "Notification inserts waiting for retry",
		},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(TransitionConflictsTotal)
	prometheus.MustRegister(ClaimAttemptsTotal)
	prometheus.MustRegister(NotificationRetryQueueDepth)
	prometheus.MustRegister(HTTPRequestDuration)
}
