package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// GetConnection retrieves a connection by ID.
func (s *Store) GetConnection(id string) (*models.ClockifyConnection, error) {
	var conn models.ClockifyConnection
	err := s.db.First(&conn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetConnectionByUser retrieves the active connection for a user, if any.
func (s *Store) GetConnectionByUser(userID string) (*models.ClockifyConnection, error) {
	var conn models.ClockifyConnection
	err := s.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpsertConnection creates or reactivates the connection for the
// (user, workspace) pair. On conflict the existing row keeps its sync
// history (last sync timestamps, status) and only the credential and
// settings fields are refreshed.
func (s *Store) UpsertConnection(conn *models.ClockifyConnection) (*models.ClockifyConnection, error) {
	var existing models.ClockifyConnection
	err := s.db.
		Where("user_id = ? AND workspace_id = ?", conn.UserID, conn.WorkspaceID).
		First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]any{
			"api_key_encrypted": conn.APIKeyEncrypted,
			"external_user_id":  conn.ExternalUserID,
			"is_active":         true,
			"auto_sync":         conn.AutoSync,
			"sync_direction":    models.SyncDirectionImport,
		}
		if conn.SyncFrequencyMins > 0 {
			updates["sync_frequency_mins"] = conn.SyncFrequencyMins
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return s.GetConnection(existing.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if conn.ID == "" {
			conn.ID = uuid.New().String()
		}
		conn.IsActive = true
		conn.SyncStatus = models.SyncStatusPending
		conn.SyncDirection = models.SyncDirectionImport
		if conn.SyncFrequencyMins <= 0 {
			conn.SyncFrequencyMins = 60
		}
		if err := s.db.Create(conn).Error; err != nil {
			return nil, err
		}
		return conn, nil
	default:
		return nil, err
	}
}

// DeactivateConnection soft-deletes a connection. Historical sync logs
// and imported entries are kept.
func (s *Store) DeactivateConnection(id string) error {
	result := s.db.Model(&models.ClockifyConnection{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// BeginSync atomically transitions the connection into the syncing
// state. The conditional update is the concurrency guard: if another
// run already holds the connection, zero rows match and
// ErrSyncInProgress is returned.
func (s *Store) BeginSync(id string, now time.Time) error {
	result := s.db.Model(&models.ClockifyConnection{}).
		Where("id = ? AND sync_status <> ?", id, models.SyncStatusSyncing).
		Updates(map[string]any{
			"sync_status":  models.SyncStatusSyncing,
			"last_sync_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSyncInProgress
	}
	return nil
}

// FinishSyncSuccess records a successful sync completion on the
// connection.
func (s *Store) FinishSyncSuccess(id string, completedAt time.Time) error {
	return s.db.Model(&models.ClockifyConnection{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_status":             models.SyncStatusSuccess,
			"last_successful_sync_at": completedAt,
			"last_error":              "",
		}).Error
}

// FinishSyncFailure records a failed sync on the connection. The
// last_successful_sync_at watermark is left untouched so the next
// incremental run re-covers the failed window.
func (s *Store) FinishSyncFailure(id, errorMessage string) error {
	return s.db.Model(&models.ClockifyConnection{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_status": models.SyncStatusError,
			"last_error":  errorMessage,
		}).Error
}

// DueConnections returns up to limit active auto-sync connections whose
// sync interval has elapsed, oldest sync first. Connections that never
// synced sort first.
func (s *Store) DueConnections(limit int, now time.Time) ([]models.ClockifyConnection, error) {
	var conns []models.ClockifyConnection
	err := s.db.
		Where("is_active = ? AND auto_sync = ? AND sync_status <> ?",
			true, true, models.SyncStatusSyncing).
		Order("last_sync_at ASC NULLS FIRST").
		Limit(limit * 4). // overfetch, frequency filter applies in Go
		Find(&conns).Error
	if err != nil {
		return nil, err
	}

	due := make([]models.ClockifyConnection, 0, limit)
	for _, c := range conns {
		if c.SyncDue(now) {
			due = append(due, c)
			if len(due) >= limit {
				break
			}
		}
	}
	return due, nil
}
