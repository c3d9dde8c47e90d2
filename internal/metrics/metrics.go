// Package metrics provides Prometheus instrumentation for the ingestion
// pipeline and the detector boundary.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the Prometheus collectors for pipeline operations.
type Metrics struct {
	pipelineRunsTotal    *prometheus.CounterVec
	pipelineDuration     prometheus.Histogram
	dedupHitsTotal       *prometheus.CounterVec
	dedupSavedBytesTotal prometheus.Counter
	detectorDuration     prometheus.Histogram
	detectorErrorsTotal  *prometheus.CounterVec
	detectionsTotal      *prometheus.CounterVec
}

// New creates and registers pipeline metrics on the given registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		pipelineRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Total pipeline runs by terminal status",
			},
			[]string{"status"}, // completed, duplicate, failed
		),
		pipelineDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pipeline_run_duration_seconds",
				Help:    "End to end pipeline run duration",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		dedupHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dedup_hits_total",
				Help: "Duplicate uploads detected, by match type",
			},
			[]string{"type"}, // EXACT, NEAR
		),
		dedupSavedBytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dedup_saved_bytes_total",
				Help: "Storage bytes avoided by deduplicating uploads",
			},
		),
		detectorDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "detector_request_duration_seconds",
				Help:    "Model service request duration",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
		detectorErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detector_errors_total",
				Help: "Model service failures by kind",
			},
			[]string{"kind"}, // timeout, transport, bad_status
		),
		detectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detections_total",
				Help: "Detections persisted, by site type wire literal",
			},
			[]string{"site_type"},
		),
	}

	collectors := []prometheus.Collector{
		m.pipelineRunsTotal,
		m.pipelineDuration,
		m.dedupHitsTotal,
		m.dedupSavedBytesTotal,
		m.detectorDuration,
		m.detectorErrorsTotal,
		m.detectionsTotal,
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordRun records a terminal pipeline status and its duration.
func (m *Metrics) RecordRun(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.pipelineRunsTotal.WithLabelValues(status).Inc()
	m.pipelineDuration.Observe(elapsed.Seconds())
}

// RecordDedupHit records a duplicate match and the storage it avoided.
func (m *Metrics) RecordDedupHit(matchType string, savedBytes int64) {
	if m == nil {
		return
	}
	m.dedupHitsTotal.WithLabelValues(matchType).Inc()
	if savedBytes > 0 {
		m.dedupSavedBytesTotal.Add(float64(savedBytes))
	}
}

// RecordDetectorCall records a model service round trip.
func (m *Metrics) RecordDetectorCall(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.detectorDuration.Observe(elapsed.Seconds())
}

// RecordDetectorError records a model service failure by error kind.
func (m *Metrics) RecordDetectorError(kind string) {
	if m == nil {
		return
	}
	m.detectorErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordDetection records one persisted detection by site type.
func (m *Metrics) RecordDetection(siteType string) {
	if m == nil {
		return
	}
	m.detectionsTotal.WithLabelValues(siteType).Inc()
}
