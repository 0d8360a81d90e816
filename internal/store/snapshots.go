package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// GetSnapshot retrieves a snapshot with its children by ID, scoped to a
// user.
func (s *Store) GetSnapshot(userID, id string) (*models.WeeklySnapshot, error) {
	var snap models.WeeklySnapshot
	err := s.db.
		Preload("Goals").
		Preload("Events").
		Where("user_id = ? AND id = ?", userID, id).
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetSnapshotByWeek retrieves the snapshot for a user's week, with
// children preloaded.
func (s *Store) GetSnapshotByWeek(userID string, weekStart time.Time) (*models.WeeklySnapshot, error) {
	var snap models.WeeklySnapshot
	err := s.db.
		Preload("Goals").
		Preload("Events").
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSnapshots returns the user's snapshots, most recent week first.
func (s *Store) ListSnapshots(userID string, limit int) ([]models.WeeklySnapshot, error) {
	var snaps []models.WeeklySnapshot
	query := s.db.
		Where("user_id = ?", userID).
		Order("week_start DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&snaps).Error
	return snaps, err
}

// CreateSnapshot inserts the snapshot together with its goal and event
// children in one transaction. A snapshot already present for the week
// yields ErrSnapshotExists.
func (s *Store) CreateSnapshot(snap *models.WeeklySnapshot) error {
	var count int64
	if err := s.db.Model(&models.WeeklySnapshot{}).
		Where("user_id = ? AND week_start = ?", snap.UserID, snap.WeekStart).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSnapshotExists
	}

	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	for i := range snap.Goals {
		if snap.Goals[i].ID == "" {
			snap.Goals[i].ID = uuid.New().String()
		}
		snap.Goals[i].SnapshotID = snap.ID
	}
	for i := range snap.Events {
		if snap.Events[i].ID == "" {
			snap.Events[i].ID = uuid.New().String()
		}
		snap.Events[i].SnapshotID = snap.ID
	}

	return s.db.Create(snap).Error
}

// ReplaceSnapshot overwrites the snapshot's derived fields and replaces
// its children wholesale, all in one transaction. Callers check the
// frozen flag first; this method only persists.
func (s *Store) ReplaceSnapshot(snap *models.WeeklySnapshot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"total_available_hours": snap.TotalAvailableHours,
			"total_allocated_hours": snap.TotalAllocatedHours,
			"total_completed_hours": snap.TotalCompletedHours,
			"free_time_hours":       snap.FreeTimeHours,
			"content_hash":          snap.ContentHash,
		}
		if err := tx.Model(&models.WeeklySnapshot{}).
			Where("id = ?", snap.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("snapshot_id = ?", snap.ID).
			Delete(&models.GoalSnapshot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("snapshot_id = ?", snap.ID).
			Delete(&models.RecurringEventSnapshot{}).Error; err != nil {
			return err
		}

		for i := range snap.Goals {
			if snap.Goals[i].ID == "" {
				snap.Goals[i].ID = uuid.New().String()
			}
			snap.Goals[i].SnapshotID = snap.ID
		}
		for i := range snap.Events {
			if snap.Events[i].ID == "" {
				snap.Events[i].ID = uuid.New().String()
			}
			snap.Events[i].SnapshotID = snap.ID
		}

		if len(snap.Goals) > 0 {
			if err := tx.Create(&snap.Goals).Error; err != nil {
				return err
			}
		}
		if len(snap.Events) > 0 {
			if err := tx.Create(&snap.Events).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FreezeSnapshot marks a snapshot immutable.
func (s *Store) FreezeSnapshot(userID, id string) error {
	result := s.db.Model(&models.WeeklySnapshot{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_frozen", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
