package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Sync Engine Metrics
	SyncRunsTotal          *prometheus.CounterVec
	SyncRunDuration        *prometheus.HistogramVec
	EntriesReconciledTotal *prometheus.CounterVec
	ProjectsCachedTotal    prometheus.Counter

	// Connection Metrics
	ConnectionsConnectedTotal    *prometheus.CounterVec
	ConnectionsDisconnectedTotal prometheus.Counter
	ConnectionsActive            prometheus.Gauge

	// Timer Metrics
	TimersStartedTotal *prometheus.CounterVec
	TimersStoppedTotal prometheus.Counter
	TimerDuration      prometheus.Histogram
	TimersRunning      prometheus.Gauge

	// Snapshot Metrics
	SnapshotsCreatedTotal      prometheus.Counter
	SnapshotsRecalculatedTotal *prometheus.CounterVec

	// External API Metrics
	ExternalAPICallsTotal   *prometheus.CounterVec
	ExternalAPICallDuration *prometheus.HistogramVec

	// HTTP Request Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	m := &Metrics{
		// Sync Engine Metrics
		SyncRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_runs_total",
				Help: "Total number of sync runs",
			},
			[]string{"sync_type", "result"}, // sync_type: full, incremental; result: success, error, conflict
		),
		SyncRunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sync_run_duration_seconds",
				Help:    "Time taken to complete a sync run",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"sync_type"},
		),
		EntriesReconciledTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_entries_reconciled_total",
				Help: "Total number of time entries reconciled during sync",
			},
			[]string{"action"}, // imported, updated, skipped
		),
		ProjectsCachedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sync_projects_cached_total",
				Help: "Total number of external projects upserted into the local cache",
			},
		),

		// Connection Metrics
		ConnectionsConnectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connections_connected_total",
				Help: "Total number of connection attempts",
			},
			[]string{"result"}, // success, error
		),
		ConnectionsDisconnectedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "connections_disconnected_total",
				Help: "Total number of disconnects",
			},
		),
		ConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "connections_active",
				Help: "Current number of active connections",
			},
		),

		// Timer Metrics
		TimersStartedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timers_started_total",
				Help: "Total number of timers started",
			},
			[]string{"with_project"}, // true, false
		),
		TimersStoppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "timers_stopped_total",
				Help: "Total number of timers stopped",
			},
		),
		TimerDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "timer_duration_seconds",
				Help: "Duration of stopped timers",
				Buckets: []float64{
					60,
					300,
					900,
					1800,
					3600,
					7200,
					14400,
					28800,
				}, // 1m, 5m, 15m, 30m, 1h, 2h, 4h, 8h
			},
		),
		TimersRunning: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "timers_running",
				Help: "Current number of open timers",
			},
		),

		// Snapshot Metrics
		SnapshotsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "snapshots_created_total",
				Help: "Total number of weekly snapshots created",
			},
		),
		SnapshotsRecalculatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapshots_recalculated_total",
				Help: "Total number of snapshot recalculations",
			},
			[]string{"result"}, // success, frozen, unchanged, error
		),

		// External API Metrics
		ExternalAPICallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external time-tracking API calls",
			},
			[]string{"operation", "result"}, // operation: current_user, projects, time_entries, ...
		),
		ExternalAPICallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_call_duration_seconds",
				Help:    "Latency of external time-tracking API calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "result"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),

		// Database Query Metrics
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_active_connections, count_running_timers
		),
	}

	return m
}

// RecordSyncRun records one sync execution and its outcome
func (m *Metrics) RecordSyncRun(syncType, result string, duration time.Duration) {
	m.SyncRunsTotal.WithLabelValues(syncType, result).Inc()
	m.SyncRunDuration.WithLabelValues(syncType).Observe(duration.Seconds())
}

// RecordEntriesReconciled records reconciliation outcomes by action
func (m *Metrics) RecordEntriesReconciled(action string, count int) {
	if count <= 0 {
		return
	}
	m.EntriesReconciledTotal.WithLabelValues(action).Add(float64(count))
}

// RecordProjectsCached records project cache upserts
func (m *Metrics) RecordProjectsCached(count int) {
	if count <= 0 {
		return
	}
	m.ProjectsCachedTotal.Add(float64(count))
}

// RecordConnect records a connection attempt
func (m *Metrics) RecordConnect(success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.ConnectionsConnectedTotal.WithLabelValues(result).Inc()

	if success {
		m.ConnectionsActive.Inc()
	}
}

// RecordDisconnect records a disconnect
func (m *Metrics) RecordDisconnect() {
	m.ConnectionsDisconnectedTotal.Inc()
	m.ConnectionsActive.Dec()
}

// RecordTimerStarted records a timer start
func (m *Metrics) RecordTimerStarted(withProject bool) {
	m.TimersStartedTotal.WithLabelValues(boolLabel(withProject)).Inc()
	m.TimersRunning.Inc()
}

// RecordTimerStopped records a timer stop and its duration
func (m *Metrics) RecordTimerStopped(duration time.Duration) {
	m.TimersStoppedTotal.Inc()
	m.TimersRunning.Dec()
	m.TimerDuration.Observe(duration.Seconds())
}

// RecordSnapshotCreated records a snapshot creation
func (m *Metrics) RecordSnapshotCreated() {
	m.SnapshotsCreatedTotal.Inc()
}

// RecordSnapshotRecalculated records a recalculation attempt outcome
func (m *Metrics) RecordSnapshotRecalculated(result string) {
	// result: success, frozen, unchanged, error
	m.SnapshotsRecalculatedTotal.WithLabelValues(result).Inc()
}

// RecordExternalAPICall records one external API call
func (m *Metrics) RecordExternalAPICall(operation string, duration time.Duration, success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.ExternalAPICallsTotal.WithLabelValues(operation, result).Inc()
	m.ExternalAPICallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetActiveConnectionsCount sets the current count of active connections (for periodic updates)
func (m *Metrics) SetActiveConnectionsCount(count int) {
	m.ConnectionsActive.Set(float64(count))
}

// SetRunningTimersCount sets the current count of open timers (for periodic updates)
func (m *Metrics) SetRunningTimersCount(count int) {
	m.TimersRunning.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
