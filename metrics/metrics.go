// Package metrics registers the Prometheus collectors of the service: HTTP
// traffic, rate limiting, and the search, suggestion, scoring and dataset
// engines. Everything is registered on the default registry at init and
// exposed through promhttp on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "emergency_reference"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limiter_buckets",
			Help:      "Client token buckets currently tracked",
		},
	)

	// FilterCacheLookups counts filter cache lookups by result (hit, miss).
	FilterCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_cache_lookups_total",
			Help:      "Filter result cache lookups",
		},
		[]string{"result"},
	)

	FilterComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_computations_total",
			Help:      "Filter passes computed over the dataset",
		},
	)

	SuggestionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestion_requests_total",
			Help:      "Suggestion requests by source (recent, dataset)",
		},
		[]string{"source"},
	)

	ScoreEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_evaluations_total",
			Help:      "Clinical score evaluations by tool",
		},
		[]string{"tool"},
	)

	DatasetConditions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_conditions",
			Help:      "Conditions in the current dataset snapshot",
		},
	)

	// DatasetReloads counts reload attempts by status (updated, unchanged, failed, skipped).
	DatasetReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset reload attempts by outcome",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		FilterCacheLookups,
		FilterComputations,
		SuggestionRequests,
		ScoreEvaluations,
		DatasetConditions,
		DatasetReloads,
	)
}
