package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
)

// SnapshotHandler handles weekly snapshot endpoints
type SnapshotHandler struct {
	snapshots *services.SnapshotService
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshots *services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// GetSnapshot returns the snapshot for a week.
// GET /api/snapshots?week_offset=
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	weekOffset, ok := parseWeekOffset(c)
	if !ok {
		return
	}

	snap, err := h.snapshots.GetSnapshot(currentUserID(c), weekOffset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

type snapshotRequest struct {
	WeekOffset int `json:"week_offset"`
}

// CreateSnapshot builds the snapshot for a week. POST /api/snapshots
func (h *SnapshotHandler) CreateSnapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	snap, err := h.snapshots.Create(c, currentUserID(c), req.WeekOffset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"snapshot": snap})
}

// CheckChanges reports snapshot staleness for a week.
// GET /api/snapshots/check-changes?week_offset=
func (h *SnapshotHandler) CheckChanges(c *gin.Context) {
	weekOffset, ok := parseWeekOffset(c)
	if !ok {
		return
	}

	report, err := h.snapshots.CheckChanges(currentUserID(c), weekOffset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Recalculate rebuilds a non-frozen snapshot.
// POST /api/snapshots/recalculate
func (h *SnapshotHandler) Recalculate(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	snap, err := h.snapshots.Recalculate(c, currentUserID(c), req.WeekOffset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

type freezeRequest struct {
	SnapshotID string `json:"snapshot_id" binding:"required"`
}

// Freeze marks a snapshot immutable. POST /api/snapshots/freeze
func (h *SnapshotHandler) Freeze(c *gin.Context) {
	var req freezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "snapshot_id is required")
		return
	}

	if err := h.snapshots.Freeze(currentUserID(c), req.SnapshotID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"frozen": true})
}

func parseWeekOffset(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("week_offset", "0")
	weekOffset, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "week_offset must be an integer")
		return 0, false
	}
	return weekOffset, true
}
