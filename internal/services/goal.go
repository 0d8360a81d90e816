package services

import (
	"errors"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
)

// GoalService is thin CRUD over goals and recurring events. The
// interesting consumers are the snapshot service (aggregation, hashing)
// and the timer service (project provisioning by goal name).
type GoalService struct {
	store *store.Store
}

// NewGoalService creates a goal service.
func NewGoalService(s *store.Store) *GoalService {
	return &GoalService{store: s}
}

// ListGoals returns the user's goals.
func (s *GoalService) ListGoals(userID string, activeOnly bool) ([]models.Goal, error) {
	return s.store.ListGoals(userID, activeOnly)
}

// GetGoal returns one goal.
func (s *GoalService) GetGoal(userID, id string) (*models.Goal, error) {
	goal, err := s.store.GetGoal(userID, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	return goal, err
}

// CreateGoal creates a goal.
func (s *GoalService) CreateGoal(userID, name, color string, timeAllocated float64) (*models.Goal, error) {
	goal := &models.Goal{
		UserID:        userID,
		Name:          name,
		Color:         color,
		TimeAllocated: timeAllocated,
		IsActive:      true,
	}
	if err := s.store.CreateGoal(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoal applies partial updates to a goal.
func (s *GoalService) UpdateGoal(userID, id string, updates map[string]any) (*models.Goal, error) {
	goal, err := s.store.UpdateGoal(userID, id, updates)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	return goal, err
}

// DeleteGoal deactivates a goal.
func (s *GoalService) DeleteGoal(userID, id string) error {
	err := s.store.DeleteGoal(userID, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return ErrGoalNotFound
	}
	return err
}

// ListRecurringEvents returns the user's recurring events.
func (s *GoalService) ListRecurringEvents(userID string, activeOnly bool) ([]models.RecurringEvent, error) {
	return s.store.ListRecurringEvents(userID, activeOnly)
}

// CreateRecurringEvent creates a recurring event.
func (s *GoalService) CreateRecurringEvent(event *models.RecurringEvent) (*models.RecurringEvent, error) {
	event.IsActive = true
	if err := s.store.CreateRecurringEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateRecurringEvent applies partial updates to a recurring event.
func (s *GoalService) UpdateRecurringEvent(userID, id string, updates map[string]any) (*models.RecurringEvent, error) {
	return s.store.UpdateRecurringEvent(userID, id, updates)
}

// DeleteRecurringEvent deactivates a recurring event.
func (s *GoalService) DeleteRecurringEvent(userID, id string) error {
	return s.store.DeleteRecurringEvent(userID, id)
}
