package models

import (
	"time"

	"gorm.io/datatypes"
)

// Provenance source constants for TimeEntry.Source
const (
	EntrySourceLocal    = "local"
	EntrySourceExternal = "external"
)

// Entry sync status constants for TimeEntry.SyncStatus
const (
	EntrySyncPending = "pending"
	EntrySyncSynced  = "synced"
)

// TimeEntry is the canonical local record of a tracked time interval.
// A NULL EndTime means the entry is still running. A NULL ExternalID
// means the entry was created locally and has not been pushed upstream.
// (user_id, external_id) is the reconciliation key: the sync engine
// upserts by it, so re-running the same window never duplicates rows.
type TimeEntry struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_user_external,priority:1;index;not null" json:"user_id"`

	Description string     `gorm:"type:text"      json:"description"`
	StartTime   time.Time  `gorm:"index;not null" json:"start_time"`
	EndTime     *time.Time `json:"end_time"`

	ExternalID *string `gorm:"uniqueIndex:idx_user_external,priority:2;type:varchar(64)" json:"external_id"`
	ProjectID  *string `gorm:"type:varchar(36)" json:"project_id"` // local ClockifyProject row
	GoalID     *string `gorm:"type:varchar(36);index" json:"goal_id"`

	Billable bool           `gorm:"not null;default:false" json:"billable"`
	TagIDs   datatypes.JSON `gorm:"type:json"              json:"tag_ids,omitempty"`

	Source       string     `gorm:"type:varchar(20);not null;default:'local'"   json:"source"`
	SyncStatus   string     `gorm:"type:varchar(20);not null;default:'pending'" json:"sync_status"`
	LastSyncedAt *time.Time `json:"last_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// Running reports whether the entry is an open timer.
func (e *TimeEntry) Running() bool {
	return e.EndTime == nil
}

// Duration returns the elapsed time of the entry, using now for running
// entries.
func (e *TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	return end.Sub(e.StartTime)
}
