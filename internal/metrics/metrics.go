package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks the number of outbound GraphQL calls to Jobber.
	JobberRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobber_api_requests_total",
			Help: "Total number of Jobber GraphQL requests made (by operation and status).",
		},
		[]string{"operation", "status"},
	)

	// Measures duration of GraphQL requests to Jobber.
	JobberRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobber_api_request_duration_seconds",
			Help:    "Duration of Jobber GraphQL requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"operation"},
	)

	TokenExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobber_token_exchanges_total",
			Help: "Total number of OAuth token exchanges against the Jobber token endpoint.",
		},
		[]string{"grant_type", "status"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_submissions_total",
			Help: "Form submissions relayed to the CRM (by kind and outcome).",
		},
		[]string{"kind", "outcome"},
	)

	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Number of NATS publish failures",
		},
		[]string{"subject"},
	)
)

// ObserveDuration records the time taken since start on the given histogram.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// counters are not meant for duration tracking
	}
}

func IncJobberRequest(operation, status string) {
	JobberRequestsTotal.WithLabelValues(operation, status).Inc()
}

func IncTokenExchange(grantType, status string) {
	TokenExchangesTotal.WithLabelValues(grantType, status).Inc()
}

func IncSubmission(kind, outcome string) {
	SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

func IncNATSPublishError(subject string) {
	NATSPublishErrors.WithLabelValues(subject).Inc()
}
