// Package observability provides observability utilities
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// RunsTotal tracks the total number of pipeline runs
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_runs_total",
			Help: "Total number of cadence pipeline runs",
		},
		[]string{"node", "status"}, // status: success, failed, canceled
	)

	// RunDuration measures pipeline run duration in seconds
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
		},
		[]string{"node", "status"},
	)

	// RowsProcessed counts cadence rows produced per node
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_rows_processed_total",
			Help: "Total number of cadence rows produced",
		},
		[]string{"node"},
	)

	// NodesEnumerated tracks the size of the node universe per run
	NodesEnumerated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cadence_nodes_enumerated",
			Help: "Number of distinct node keys enumerated in the last run",
		},
		[]string{"node"},
	)

	// RunsQueued counts queued run requests
	RunsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_runs_queued_total",
			Help: "Total number of run requests enqueued",
		},
		[]string{"node", "trigger"}, // trigger: api, schedule
	)
)

// RecordRun records the outcome and duration of one pipeline run.
func RecordRun(nodeName, status string, duration time.Duration) {
	RunsTotal.WithLabelValues(nodeName, status).Inc()
	RunDuration.WithLabelValues(nodeName, status).Observe(duration.Seconds())
}
