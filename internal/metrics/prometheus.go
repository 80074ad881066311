package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Prometheus metrics for the sync

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbsync_api_calls_total",
			Help: "Total number of CFBD API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfbsync_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Resource metrics
	RecordsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbsync_records_emitted_total",
			Help: "Total number of normalized records emitted by each resource",
		},
		[]string{"resource"},
	)

	RemoteErrorsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbsync_remote_errors_skipped_total",
			Help: "Failed API calls skipped by tolerant resources",
		},
		[]string{"resource"},
	)

	// Sink metrics
	RowsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbsync_rows_written_total",
			Help: "Total number of rows written to the destination",
		},
		[]string{"table"},
	)

	RowsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbsync_rows_skipped_total",
			Help: "Rows not written because their primary key was null",
		},
		[]string{"table"},
	)

	// Sync metrics
	SyncOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbsync_sync_operations_total",
			Help: "Total number of sync operations",
		},
		[]string{"mode", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfbsync_sync_duration_seconds",
			Help:    "Duration of sync operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"mode"},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbsync_last_successful_sync_timestamp",
			Help: "Timestamp of last successful sync operation",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordEmitted records one normalized record leaving a resource
func RecordEmitted(resource string) {
	RecordsEmittedTotal.WithLabelValues(resource).Inc()
}

// RecordSkippedRemoteError records a remote failure swallowed by a tolerant resource
func RecordSkippedRemoteError(resource string) {
	RemoteErrorsSkippedTotal.WithLabelValues(resource).Inc()
}

// RecordRowsWritten records rows written and skipped for a table
func RecordRowsWritten(table string, written, skipped int) {
	RowsWrittenTotal.WithLabelValues(table).Add(float64(written))
	if skipped > 0 {
		RowsSkippedTotal.WithLabelValues(table).Add(float64(skipped))
	}
}

// RecordSync records a sync operation
func RecordSync(mode, status string, duration float64) {
	SyncOperationsTotal.WithLabelValues(mode, status).Inc()
	SyncDuration.WithLabelValues(mode).Observe(duration)

	if status == "success" {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// Push sends the default registry to a Pushgateway under job
func Push(gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
