package models

import (
	"time"
)

// Sync status constants for ClockifyConnection.SyncStatus
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncDirectionImport is the only supported direction: external entries
// are imported into local storage, never pushed back in bulk.
const SyncDirectionImport = "import"

// ClockifyConnection links a local user to one external workspace.
// At most one row exists per (user, workspace) pair; reconnecting after a
// disconnect reactivates the existing row instead of creating a new one.
type ClockifyConnection struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"                      json:"id"`
	UserID string `gorm:"uniqueIndex:idx_user_workspace,priority:1;not null" json:"user_id"`

	WorkspaceID    string `gorm:"uniqueIndex:idx_user_workspace,priority:2;not null" json:"workspace_id"`
	ExternalUserID string `gorm:"type:varchar(64)" json:"external_user_id"`

	// APIKeyEncrypted holds base64(nonce || ciphertext) produced by the
	// credential vault. Never exposed over the API.
	APIKeyEncrypted string `gorm:"type:text;not null" json:"-"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	SyncStatus           string     `gorm:"type:varchar(20);not null;default:'pending'" json:"sync_status"`
	LastSyncAt           *time.Time `json:"last_sync_at"`
	LastSuccessfulSyncAt *time.Time `json:"last_successful_sync_at"`
	LastError            string     `gorm:"type:text" json:"last_error,omitempty"`

	AutoSync          bool   `gorm:"not null;default:true"                       json:"auto_sync"`
	SyncDirection     string `gorm:"type:varchar(20);not null;default:'import'"  json:"sync_direction"`
	SyncFrequencyMins int    `gorm:"not null;default:60"                         json:"sync_frequency_mins"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ClockifyConnection) TableName() string {
	return "clockify_connections"
}

// SyncDue reports whether the connection is due for an automatic sync at
// the given time. Connections that have never synced are always due.
func (c *ClockifyConnection) SyncDue(now time.Time) bool {
	if !c.IsActive || !c.AutoSync {
		return false
	}
	if c.LastSyncAt == nil {
		return true
	}
	return now.Sub(*c.LastSyncAt) >= time.Duration(c.SyncFrequencyMins)*time.Minute
}
