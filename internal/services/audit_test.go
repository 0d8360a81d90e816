package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
)

func TestMaskSensitiveDetails(t *testing.T) {
	masked := maskSensitiveDetails(models.AuditDetails{
		"api_key":         "secret-key",
		"Password":        "hunter2",
		"refresh_token":   "tok",
		"client_secret":   "shh",
		"workspace_id":    "ws-1",
		"api_key_preview": "abcd****",
	})

	assert.Equal(t, "***REDACTED***", masked["api_key"])
	assert.Equal(t, "***REDACTED***", masked["Password"])
	assert.Equal(t, "***REDACTED***", masked["refresh_token"])
	assert.Equal(t, "***REDACTED***", masked["client_secret"])
	assert.Equal(t, "ws-1", masked["workspace_id"])
	// Previews are safe truncations and stay readable for correlation
	assert.Equal(t, "abcd****", masked["api_key_preview"])

	assert.Nil(t, maskSensitiveDetails(nil))
}

func TestAuditService_LogSyncWritesRow(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Shutdown(ctx))
	}()

	err := svc.LogSync(context.Background(), AuditLogEntry{
		EventType:    models.EventConnectionConnected,
		Severity:     models.SeverityInfo,
		ActorUserID:  "user-1",
		ResourceType: models.ResourceConnection,
		ResourceID:   "conn-1",
		Action:       "connect",
		Details:      models.AuditDetails{"api_key": "leaky"},
		Success:      true,
	})
	require.NoError(t, err)

	logs, _, err := svc.GetAuditLogs(
		store.AuditLogFilter{ActorUserID: "user-1"},
		store.NewPaginationParams(1, 20),
	)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.EventConnectionConnected, logs[0].EventType)
	assert.Equal(t, "***REDACTED***", logs[0].Details["api_key"])
}

func TestAuditService_DisabledIsInert(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, false, 10)

	svc.Log(context.Background(), AuditLogEntry{Action: "ignored"})
	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{Action: "ignored"}))
	require.NoError(t, svc.Shutdown(context.Background()))

	logs, _, err := svc.GetAuditLogs(store.AuditLogFilter{}, store.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditService_CleanupOldLogs(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Shutdown(ctx))
	}()

	old := &models.AuditLog{
		ID:          "old-log",
		EventType:   models.EventSyncCompleted,
		EventTime:   time.Now().AddDate(0, 0, -120),
		Severity:    models.SeverityInfo,
		ActorUserID: "user-1",
		Action:      "sync:full",
		Success:     true,
		CreatedAt:   time.Now().AddDate(0, 0, -120),
	}
	require.NoError(t, s.CreateAuditLog(old))
	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{
		EventType:   models.EventSyncCompleted,
		Severity:    models.SeverityInfo,
		ActorUserID: "user-1",
		Action:      "sync:full",
		Success:     true,
	}))

	deleted, err := svc.CleanupOldLogs(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	logs, _, err := svc.GetAuditLogs(store.AuditLogFilter{}, store.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
