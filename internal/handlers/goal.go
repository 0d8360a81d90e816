package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
)

// GoalHandler handles goal and recurring-event endpoints
type GoalHandler struct {
	goals *services.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goals *services.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// ListGoals returns the caller's goals. GET /api/goals?active=true
func (h *GoalHandler) ListGoals(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	goals, err := h.goals.ListGoals(currentUserID(c), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

type createGoalRequest struct {
	Name          string  `json:"name" binding:"required"`
	Color         string  `json:"color"`
	TimeAllocated float64 `json:"time_allocated"`
}

// CreateGoal creates a goal. POST /api/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	if req.TimeAllocated < 0 {
		respondBadRequest(c, "time_allocated must not be negative")
		return
	}

	goal, err := h.goals.CreateGoal(currentUserID(c), req.Name, req.Color, req.TimeAllocated)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

type updateGoalRequest struct {
	Name          *string  `json:"name"`
	Color         *string  `json:"color"`
	TimeAllocated *float64 `json:"time_allocated"`
	TimeCompleted *float64 `json:"time_completed"`
	IsActive      *bool    `json:"is_active"`
}

// UpdateGoal applies partial updates. PUT /api/goals/:id
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.TimeAllocated != nil {
		updates["time_allocated"] = *req.TimeAllocated
	}
	if req.TimeCompleted != nil {
		updates["time_completed"] = *req.TimeCompleted
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	goal, err := h.goals.UpdateGoal(currentUserID(c), c.Param("id"), updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal deactivates a goal. DELETE /api/goals/:id
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.goals.DeleteGoal(currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListRecurringEvents returns the caller's recurring events.
// GET /api/recurring-events
func (h *GoalHandler) ListRecurringEvents(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	events, err := h.goals.ListRecurringEvents(currentUserID(c), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

type createEventRequest struct {
	Name      string  `json:"name" binding:"required"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
}

// CreateRecurringEvent creates a recurring event.
// POST /api/recurring-events
func (h *GoalHandler) CreateRecurringEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		respondBadRequest(c, "day_of_week must be between 0 (Monday) and 6 (Sunday)")
		return
	}
	if req.Hours < 0 {
		respondBadRequest(c, "hours must not be negative")
		return
	}

	event, err := h.goals.CreateRecurringEvent(&models.RecurringEvent{
		UserID:    currentUserID(c),
		Name:      req.Name,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Hours:     req.Hours,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

type updateEventRequest struct {
	Name      *string  `json:"name"`
	DayOfWeek *int     `json:"day_of_week"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Hours     *float64 `json:"hours"`
	IsActive  *bool    `json:"is_active"`
}

// UpdateRecurringEvent applies partial updates.
// PUT /api/recurring-events/:id
func (h *GoalHandler) UpdateRecurringEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.DayOfWeek != nil && (*req.DayOfWeek < 0 || *req.DayOfWeek > 6) {
		respondBadRequest(c, "day_of_week must be between 0 (Monday) and 6 (Sunday)")
		return
	}
	if req.Hours != nil && *req.Hours < 0 {
		respondBadRequest(c, "hours must not be negative")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DayOfWeek != nil {
		updates["day_of_week"] = *req.DayOfWeek
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Hours != nil {
		updates["hours"] = *req.Hours
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	event, err := h.goals.UpdateRecurringEvent(currentUserID(c), c.Param("id"), updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteRecurringEvent deactivates a recurring event.
// DELETE /api/recurring-events/:id
func (h *GoalHandler) DeleteRecurringEvent(c *gin.Context) {
	if err := h.goals.DeleteRecurringEvent(currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
