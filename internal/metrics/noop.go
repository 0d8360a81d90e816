package metrics

import (
	"time"

	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
)

// NoopMetrics is a no-operation implementation of core.Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

// Sync Engine - noop implementations
func (n *NoopMetrics) RecordSyncRun(syncType, result string, duration time.Duration) {}
func (n *NoopMetrics) RecordEntriesReconciled(action string, count int)              {}
func (n *NoopMetrics) RecordProjectsCached(count int)                                {}

// Connections - noop implementations
func (n *NoopMetrics) RecordConnect(success bool) {}
func (n *NoopMetrics) RecordDisconnect()          {}

// Timers - noop implementations
func (n *NoopMetrics) RecordTimerStarted(withProject bool)        {}
func (n *NoopMetrics) RecordTimerStopped(duration time.Duration)  {}

// Snapshots - noop implementations
func (n *NoopMetrics) RecordSnapshotCreated()                 {}
func (n *NoopMetrics) RecordSnapshotRecalculated(result string) {}

// External API - noop implementations
func (n *NoopMetrics) RecordExternalAPICall(operation string, duration time.Duration, success bool) {
}

// Gauge Setters - noop implementations
func (n *NoopMetrics) SetActiveConnectionsCount(count int) {}
func (n *NoopMetrics) SetRunningTimersCount(count int)     {}

// Database Operations - noop implementations
func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
