package models

import "time"

// Sync log status constants. A log transitions started -> completed or
// started -> failed, never backwards, and is never mutated afterwards.
const (
	SyncLogStarted   = "started"
	SyncLogCompleted = "completed"
	SyncLogFailed    = "failed"
)

// SyncLog is the append-only audit record of one sync execution.
// Exactly one row exists per sync invocation. A row left in "started"
// state indicates a run that was cut off mid-way (e.g. by the platform
// execution budget) — operationally detectable but not auto-healed.
type SyncLog struct {
	ID           string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ConnectionID string `gorm:"index;not null"              json:"connection_id"`

	SyncType  string `gorm:"type:varchar(20);not null" json:"sync_type"` // full | incremental
	Direction string `gorm:"type:varchar(20);not null" json:"direction"`
	Status    string `gorm:"type:varchar(20);not null" json:"status"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DurationMS  int64      `json:"duration_ms"`

	EntriesImported int `json:"entries_imported"`
	EntriesUpdated  int `json:"entries_updated"`
	EntriesSkipped  int `json:"entries_skipped"`

	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
