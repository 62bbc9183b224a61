// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// MatchingRequests counts recommendation requests by outcome
	// (matched, no_match, invalid, error).
	MatchingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "factory_matching_requests_total",
			Help: "Total number of factory matching requests by outcome",
		},
		[]string{"outcome"},
	)

	MatchingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "factory_matching_candidates",
			Help:    "Number of factories surviving the constraint filter",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	MatchingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "factory_matching_duration_seconds",
			Help: "End-to-end duration of a recommendation request",
		},
	)

	// MatchingSummaryFallbacks counts template summaries used instead of generated text.
	MatchingSummaryFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "factory_matching_ai_fallback_total",
			Help: "Total number of recommendation summaries that fell back to the template",
		},
		[]string{"reason"},
	)

	ConsultationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultations_created_total",
			Help: "Total number of consultation requests created",
		},
		[]string{"project_type"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications by channel and status",
		},
		[]string{"channel", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "factory_cache_lookups_total",
			Help: "Factory catalogue cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
