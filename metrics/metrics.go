package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tournament_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "route"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tournament_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "route"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tournament_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// DBTransactionDuration measures transactional scopes opened by the gateway
	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tournament_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// MatchTransitions counts applied match state changes
	MatchTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tournament_match_transitions_total",
			Help: "Total number of match lifecycle transitions",
		},
		[]string{"to"},
	)

	// GuardRejections counts requests rejected by the staff guard
	GuardRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tournament_guard_rejections_total",
			Help: "Total number of requests rejected for missing staff credentials",
		},
	)
)

// RecordDBTransaction records the duration of a transaction with its outcome
func RecordDBTransaction(outcome string, startTime time.Time) {
	DBTransactionDuration.WithLabelValues(outcome).Observe(time.Since(startTime).Seconds())
}
