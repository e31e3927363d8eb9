// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leaf_doctor_inference_duration_seconds",
			Help:    "Time taken by upstream inference calls in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
		},
		[]string{"model", "operation"},
	)

	InferenceResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaf_doctor_inference_results_total",
			Help: "Upstream inference outcomes",
		},
		[]string{"model", "operation", "outcome"},
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leaf_doctor_upload_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(16<<10, 2, 10),
		},
	)

	CleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leaf_doctor_cleanup_failures_total",
			Help: "Temporary upload files that could not be removed",
		},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaf_doctor_responses_total",
			Help: "HTTP responses by route and status code",
		},
		[]string{"path", "status_code"},
	)
)
