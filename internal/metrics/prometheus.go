// Package metrics exposes Prometheus instrumentation for the analysis flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all counters and histograms for the service. Register once
// per process; promauto panics on duplicate registration.
type Metrics struct {
	AnalysisRequests  prometheus.Counter
	AnalysisSuccesses prometheus.Counter
	AnalysisFailures  prometheus.Counter
	RejectedUploads   prometheus.Counter
	AnalysisDuration  prometheus.Histogram
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		AnalysisRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "beatlens_analysis_requests_total",
			Help: "Total number of analysis submissions received",
		}),
		AnalysisSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "beatlens_analysis_successes_total",
			Help: "Total number of analyses that produced a valid result",
		}),
		AnalysisFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "beatlens_analysis_failures_total",
			Help: "Total number of analyses that failed downstream",
		}),
		RejectedUploads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "beatlens_rejected_uploads_total",
			Help: "Total number of uploads rejected by validation",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "beatlens_analysis_duration_seconds",
			Help:    "End-to-end duration of analysis requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}
