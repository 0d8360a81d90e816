package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Sync engine
	RecordSyncRun(syncType, result string, duration time.Duration)
	RecordEntriesReconciled(action string, count int) // imported | updated | skipped
	RecordProjectsCached(count int)

	// Connections
	RecordConnect(success bool)
	RecordDisconnect()

	// Timers
	RecordTimerStarted(withProject bool)
	RecordTimerStopped(duration time.Duration)

	// Snapshots
	RecordSnapshotCreated()
	RecordSnapshotRecalculated(result string)

	// External API
	RecordExternalAPICall(operation string, duration time.Duration, success bool)

	// Gauge setters (for periodic updates)
	SetActiveConnectionsCount(count int)
	SetRunningTimersCount(count int)

	// Database operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by the gauge cache wrapper.
type MetricsStore interface {
	CountActiveConnections() (int64, error)
	CountRunningTimers() (int64, error)
}
