package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// CreateAuditLog creates a single audit log entry.
func (s *Store) CreateAuditLog(log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.EventTime.IsZero() {
		log.EventTime = time.Now()
	}
	return s.db.Create(log).Error
}

// CreateAuditLogBatch creates multiple audit log entries in a single
// insert. Used by the async audit worker to flush its buffer.
func (s *Store) CreateAuditLogBatch(logs []*models.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	now := time.Now()
	for _, log := range logs {
		if log.ID == "" {
			log.ID = uuid.New().String()
		}
		if log.EventTime.IsZero() {
			log.EventTime = now
		}
	}
	return s.db.Create(logs).Error
}

// AuditLogFilter narrows audit log queries.
type AuditLogFilter struct {
	EventType   models.EventType
	ActorUserID string
	ResourceID  string
	Since       time.Time
}

// QueryAuditLogs returns filtered audit logs, newest first, with
// pagination metadata.
func (s *Store) QueryAuditLogs(filter AuditLogFilter, params PaginationParams) ([]models.AuditLog, Pagination, error) {
	query := s.db.Model(&models.AuditLog{})
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.ActorUserID != "" {
		query = query.Where("actor_user_id = ?", filter.ActorUserID)
	}
	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("event_time >= ?", filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var logs []models.AuditLog
	err := query.
		Order("event_time DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return logs, buildPagination(params, total), nil
}

// DeleteOldAuditLogs removes audit logs older than the retention cutoff
// and returns the number deleted.
func (s *Store) DeleteOldAuditLogs(before time.Time) (int64, error) {
	result := s.db.
		Where("event_time < ?", before).
		Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
