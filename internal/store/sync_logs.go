package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// CreateSyncLog appends a sync log row in started state.
func (s *Store) CreateSyncLog(log *models.SyncLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Status == "" {
		log.Status = models.SyncLogStarted
	}
	return s.db.Create(log).Error
}

// CompleteSyncLog finalizes a sync log with its outcome and counters.
// Logs are append-only apart from this single transition.
func (s *Store) CompleteSyncLog(id, status string, completedAt time.Time, imported, updated, skipped int, errorMessage string) error {
	var log models.SyncLog
	if err := s.db.First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	return s.db.Model(&log).Updates(map[string]any{
		"status":           status,
		"completed_at":     completedAt,
		"duration_ms":      completedAt.Sub(log.StartedAt).Milliseconds(),
		"entries_imported": imported,
		"entries_updated":  updated,
		"entries_skipped":  skipped,
		"error_message":    errorMessage,
	}).Error
}

// ListSyncLogs returns sync logs for a connection, newest first, with
// pagination metadata.
func (s *Store) ListSyncLogs(connectionID string, params PaginationParams) ([]models.SyncLog, Pagination, error) {
	var total int64
	if err := s.db.Model(&models.SyncLog{}).
		Where("connection_id = ?", connectionID).
		Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var logs []models.SyncLog
	err := s.db.
		Where("connection_id = ?", connectionID).
		Order("started_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return logs, buildPagination(params, total), nil
}
