package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
)

// SyncHandler handles sync trigger and history endpoints
type SyncHandler struct {
	sync       *services.SyncService
	batchLimit int
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *services.SyncService, batchLimit int) *SyncHandler {
	return &SyncHandler{sync: sync, batchLimit: batchLimit}
}

type syncRequest struct {
	ConnectionID string `json:"connection_id" binding:"required"`
	SyncType     string `json:"sync_type"`
}

// TriggerSync runs a sync for one connection. POST /api/sync
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "connection_id is required")
		return
	}

	result, err := h.sync.Sync(c, currentUserID(c), req.ConnectionID, req.SyncType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ListSyncLogs returns the sync history of a connection.
// GET /api/sync/logs?connection_id=&page=&page_size=
func (h *SyncHandler) ListSyncLogs(c *gin.Context) {
	connectionID := c.Query("connection_id")
	if connectionID == "" {
		respondBadRequest(c, "connection_id is required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := store.NewPaginationParams(page, pageSize)

	logs, pagination, err := h.sync.ListLogs(currentUserID(c), connectionID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": pagination,
	})
}

// RunDue triggers a batch of scheduled syncs. Exposed for an external
// cron, protected by the scheduler bearer token.
// POST /sync/run-due
func (h *SyncHandler) RunDue(c *gin.Context) {
	result, err := h.sync.SyncDueConnections(c, h.batchLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
