// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the campus backend.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, path, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// TasksTotal counts GenAI task invocations by task and outcome status.
	TasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_genai_tasks_total",
			Help: "GenAI task invocations",
		},
		[]string{"task", "status"},
	)

	// ProviderRequestsTotal counts calls sent to the backend LLM provider.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"model", "status"},
	)

	// ProviderLatency records backend provider latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// ProviderTokensTotal counts tokens processed by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)

	// SignupsTotal counts activity signups by activity name.
	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_signups_total",
			Help: "Activity signups",
		},
		[]string{"activity"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TasksTotal,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		SignupsTotal,
		RateLimitRejectedTotal,
	)
}
