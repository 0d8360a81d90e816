package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

func createTestGoal(t *testing.T, s *Store, userID, name string) *models.Goal {
	goal := &models.Goal{
		UserID:        userID,
		Name:          name,
		TimeAllocated: 10,
		IsActive:      true,
	}
	require.NoError(t, s.CreateGoal(goal))
	return goal
}

func TestGoalCRUD(t *testing.T) {
	s := setupTestStore(t)
	goal := createTestGoal(t, s, "user-1", "Learning")
	assert.NotEmpty(t, goal.ID)

	got, err := s.GetGoal("user-1", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learning", got.Name)

	// Scoped by user
	_, err = s.GetGoal("user-2", goal.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	updated, err := s.UpdateGoal("user-1", goal.ID, map[string]any{"time_allocated": 15.0})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.TimeAllocated)

	_, err = s.UpdateGoal("user-1", "missing", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	require.NoError(t, s.DeleteGoal("user-1", goal.ID))
	goals, err := s.ListGoals("user-1", true)
	require.NoError(t, err)
	assert.Empty(t, goals)

	// Soft delete: row still visible without the active filter
	goals, err = s.ListGoals("user-1", false)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestAddGoalTime(t *testing.T) {
	s := setupTestStore(t)
	goal := createTestGoal(t, s, "user-1", "Learning")

	require.NoError(t, s.AddGoalTime("user-1", goal.ID, 1.5))
	require.NoError(t, s.AddGoalTime("user-1", goal.ID, 0.25))

	got, err := s.GetGoal("user-1", goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.75, got.TimeCompleted, 1e-9)

	assert.ErrorIs(t, s.AddGoalTime("user-1", "missing", 1), ErrRecordNotFound)
}

func TestRecurringEventCRUD(t *testing.T) {
	s := setupTestStore(t)

	event := &models.RecurringEvent{
		UserID:    "user-1",
		Name:      "Standup",
		DayOfWeek: 0,
		StartTime: "09:00",
		EndTime:   "09:30",
		Hours:     0.5,
		IsActive:  true,
	}
	require.NoError(t, s.CreateRecurringEvent(event))
	assert.NotEmpty(t, event.ID)

	updated, err := s.UpdateRecurringEvent("user-1", event.ID, map[string]any{"hours": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Hours)

	require.NoError(t, s.DeleteRecurringEvent("user-1", event.ID))
	events, err := s.ListRecurringEvents("user-1", true)
	require.NoError(t, err)
	assert.Empty(t, events)
}
