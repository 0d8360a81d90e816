package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// GetGoal retrieves a goal by ID, scoped to a user.
func (s *Store) GetGoal(userID, id string) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.
		Where("user_id = ? AND id = ?", userID, id).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals returns the user's goals, active ones first.
func (s *Store) ListGoals(userID string, activeOnly bool) ([]models.Goal, error) {
	query := s.db.Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var goals []models.Goal
	err := query.Order("is_active DESC, name ASC").Find(&goals).Error
	return goals, err
}

// CreateGoal inserts a new goal.
func (s *Store) CreateGoal(goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	return s.db.Create(goal).Error
}

// UpdateGoal applies partial updates to a goal.
func (s *Store) UpdateGoal(userID, id string, updates map[string]any) (*models.Goal, error) {
	result := s.db.Model(&models.Goal{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.GetGoal(userID, id)
}

// AddGoalTime increments a goal's completed hours for the week.
func (s *Store) AddGoalTime(userID, id string, hours float64) error {
	result := s.db.Model(&models.Goal{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("time_completed", gorm.Expr("time_completed + ?", hours))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteGoal deactivates a goal. Rows are kept so snapshots and
// mappings stay resolvable.
func (s *Store) DeleteGoal(userID, id string) error {
	result := s.db.Model(&models.Goal{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetRecurringEvent retrieves a recurring event by ID, scoped to a user.
func (s *Store) GetRecurringEvent(userID, id string) (*models.RecurringEvent, error) {
	var event models.RecurringEvent
	err := s.db.
		Where("user_id = ? AND id = ?", userID, id).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListRecurringEvents returns the user's recurring events ordered by
// weekday and start time.
func (s *Store) ListRecurringEvents(userID string, activeOnly bool) ([]models.RecurringEvent, error) {
	query := s.db.Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var events []models.RecurringEvent
	err := query.Order("day_of_week ASC, start_time ASC").Find(&events).Error
	return events, err
}

// CreateRecurringEvent inserts a new recurring event.
func (s *Store) CreateRecurringEvent(event *models.RecurringEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return s.db.Create(event).Error
}

// UpdateRecurringEvent applies partial updates to a recurring event.
func (s *Store) UpdateRecurringEvent(userID, id string, updates map[string]any) (*models.RecurringEvent, error) {
	result := s.db.Model(&models.RecurringEvent{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.GetRecurringEvent(userID, id)
}

// DeleteRecurringEvent deactivates a recurring event.
func (s *Store) DeleteRecurringEvent(userID, id string) error {
	result := s.db.Model(&models.RecurringEvent{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
