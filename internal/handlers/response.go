package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
)

// respondError maps service errors onto the API's status contract:
// 401 invalid credentials, 403 immutable or live snapshots, 404 absent
// or foreign rows, 409 state conflicts, 500 everything else. Internal
// errors are never echoed to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clockify.ErrInvalidAPIKey):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_api_key",
			"message": "The API key was rejected by the time-tracking service",
		})
	case errors.Is(err, services.ErrSnapshotFrozen):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "snapshot_frozen",
			"message": "Frozen snapshots cannot be recalculated",
		})
	case errors.Is(err, services.ErrWeekNotRecalculable):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "week_not_recalculable",
			"message": "Only past weeks can be recalculated",
		})
	case errors.Is(err, store.ErrRecordNotFound),
		errors.Is(err, services.ErrNoConnection),
		errors.Is(err, services.ErrGoalNotFound),
		errors.Is(err, services.ErrSnapshotNotFound),
		errors.Is(err, services.ErrNoRunningTimer),
		errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, clockify.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
		})
	case errors.Is(err, store.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "sync_in_progress",
			"message": "A sync is already running for this connection",
		})
	case errors.Is(err, services.ErrTimerAlreadyRunning),
		errors.Is(err, services.ErrConnectionInactive),
		errors.Is(err, store.ErrSnapshotExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong",
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "bad_request",
		"message": message,
	})
}

// currentUserID returns the authenticated user's ID set by RequireAuth.
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
