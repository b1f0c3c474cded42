// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_pipeline_requests_total",
			Help: "Total number of listing generation requests by pipeline",
		},
		[]string{"pipeline"},
	)

	PipelineFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_pipeline_failures_total",
			Help: "Total number of failed listing generation requests",
		},
		[]string{"pipeline", "error_code"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "listing_pipeline_duration_seconds",
			Help: "Duration of listing generation in seconds",
		},
		[]string{"pipeline"},
	)

	PipelineActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listing_pipeline_active",
			Help: "Number of in-flight listing generation requests",
		},
		[]string{"pipeline"},
	)

	TranscriptionClipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcription_clips_total",
			Help: "Audio clips transcribed, by outcome",
		},
		[]string{"status"},
	)

	EnrichmentCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_calls_total",
			Help: "Enrichment vendor calls, by outcome and cache state",
		},
		[]string{"status", "cache"},
	)
)
