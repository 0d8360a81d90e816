package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
)

func TestRespondError_StatusContract(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid api key", clockify.ErrInvalidAPIKey, http.StatusUnauthorized, "invalid_api_key"},
		{"frozen snapshot", services.ErrSnapshotFrozen, http.StatusForbidden, "snapshot_frozen"},
		{"live week", services.ErrWeekNotRecalculable, http.StatusForbidden, "week_not_recalculable"},
		{"record not found", store.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"no connection", services.ErrNoConnection, http.StatusNotFound, "not_found"},
		{"goal not found", services.ErrGoalNotFound, http.StatusNotFound, "not_found"},
		{"no running timer", services.ErrNoRunningTimer, http.StatusNotFound, "not_found"},
		{"workspace not found", services.ErrWorkspaceNotFound, http.StatusNotFound, "not_found"},
		{"sync in progress", store.ErrSyncInProgress, http.StatusConflict, "sync_in_progress"},
		{"timer already running", services.ErrTimerAlreadyRunning, http.StatusConflict, "conflict"},
		{"connection inactive", services.ErrConnectionInactive, http.StatusConflict, "conflict"},
		{"snapshot exists", store.ErrSnapshotExists, http.StatusConflict, "conflict"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestRespondError_NeverEchoesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestRespondError_WrappedErrorsStillMap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	wrapped := errors.Join(errors.New("fetch time entries"), clockify.ErrInvalidAPIKey)
	respondError(c, wrapped)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
