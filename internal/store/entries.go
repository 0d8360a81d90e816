package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// GetTimeEntry retrieves a time entry by ID, scoped to a user.
func (s *Store) GetTimeEntry(userID, id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.db.
		Where("user_id = ? AND id = ?", userID, id).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetTimeEntryByExternalID looks up an entry by its reconciliation key.
func (s *Store) GetTimeEntryByExternalID(userID, externalID string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.db.
		Where("user_id = ? AND external_id = ?", userID, externalID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateTimeEntry inserts a new time entry.
func (s *Store) CreateTimeEntry(entry *models.TimeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return s.db.Create(entry).Error
}

// SaveTimeEntry persists all fields of an existing entry.
func (s *Store) SaveTimeEntry(entry *models.TimeEntry) error {
	return s.db.Save(entry).Error
}

// GetRunningEntry returns the user's open timer, if one exists.
func (s *Store) GetRunningEntry(userID string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.db.
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntriesInRange returns the user's entries whose start time falls
// in [from, to), newest first.
func (s *Store) ListEntriesInRange(userID string, from, to time.Time) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := s.db.
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from, to).
		Order("start_time DESC").
		Find(&entries).Error
	return entries, err
}
