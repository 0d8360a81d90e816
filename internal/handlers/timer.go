package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
)

// TimerHandler handles timer endpoints
type TimerHandler struct {
	timers *services.TimerService
}

// NewTimerHandler creates a new timer handler
func NewTimerHandler(timers *services.TimerService) *TimerHandler {
	return &TimerHandler{timers: timers}
}

type startTimerRequest struct {
	GoalID      string `json:"goal_id" binding:"required"`
	Description string `json:"description"`
}

// StartTimer opens a timer for a goal. POST /api/timer/start
func (h *TimerHandler) StartTimer(c *gin.Context) {
	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "goal_id is required")
		return
	}

	entry, err := h.timers.StartTimer(c, currentUserID(c), req.GoalID, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// StopTimer closes the caller's open timer. POST /api/timer/stop
func (h *TimerHandler) StopTimer(c *gin.Context) {
	entry, err := h.timers.StopTimer(c, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// CurrentTimer returns the open timer, if any.
// GET /api/timer/current
func (h *TimerHandler) CurrentTimer(c *gin.Context) {
	entry, err := h.timers.CurrentTimer(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry":           entry,
		"elapsed_seconds": int64(entry.Duration(time.Now()).Seconds()),
	})
}

// WeeklyEntries lists entries for a week.
// GET /api/timer/weekly?week_start=2006-01-02
func (h *TimerHandler) WeeklyEntries(c *gin.Context) {
	ref := time.Now()
	if weekStart := c.Query("week_start"); weekStart != "" {
		parsed, err := time.Parse("2006-01-02", weekStart)
		if err != nil {
			respondBadRequest(c, "week_start must be YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	entries, err := h.timers.WeeklyEntries(currentUserID(c), ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
