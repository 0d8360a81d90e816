package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	// Use in-memory SQLite database for testing
	s, err := New("sqlite", ":memory:")
	require.NoError(t, err)
	return s
}

func createTestConnection(t *testing.T, s *Store, userID string) *models.ClockifyConnection {
	conn, err := s.UpsertConnection(&models.ClockifyConnection{
		UserID:          userID,
		WorkspaceID:     "ws-" + uuid.New().String()[:8],
		ExternalUserID:  "ext-user-1",
		APIKeyEncrypted: "encrypted-key",
		AutoSync:        true,
	})
	require.NoError(t, err)
	return conn
}

func TestGetDialector_UnknownDriver(t *testing.T) {
	_, err := GetDialector("oracle", "dsn")
	assert.Error(t, err)
}

func TestUpsertConnection_CreateAndReactivate(t *testing.T) {
	s := setupTestStore(t)

	conn, err := s.UpsertConnection(&models.ClockifyConnection{
		UserID:          "user-1",
		WorkspaceID:     "ws-1",
		ExternalUserID:  "ext-1",
		APIKeyEncrypted: "enc-1",
		AutoSync:        true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, conn.ID)
	assert.True(t, conn.IsActive)
	assert.Equal(t, models.SyncStatusPending, conn.SyncStatus)
	assert.Equal(t, models.SyncDirectionImport, conn.SyncDirection)
	assert.Equal(t, 60, conn.SyncFrequencyMins)

	// Simulate sync history, then disconnect
	completed := time.Now()
	require.NoError(t, s.BeginSync(conn.ID, completed))
	require.NoError(t, s.FinishSyncSuccess(conn.ID, completed))
	require.NoError(t, s.DeactivateConnection(conn.ID))

	// Reconnecting the same (user, workspace) reactivates the row
	reconnected, err := s.UpsertConnection(&models.ClockifyConnection{
		UserID:          "user-1",
		WorkspaceID:     "ws-1",
		ExternalUserID:  "ext-1",
		APIKeyEncrypted: "enc-2",
		AutoSync:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, conn.ID, reconnected.ID)
	assert.True(t, reconnected.IsActive)
	assert.Equal(t, "enc-2", reconnected.APIKeyEncrypted)
	// Sync history survives the reconnect
	require.NotNil(t, reconnected.LastSuccessfulSyncAt)
}

func TestGetConnectionByUser_ActiveOnly(t *testing.T) {
	s := setupTestStore(t)
	conn := createTestConnection(t, s, "user-1")

	got, err := s.GetConnectionByUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)

	require.NoError(t, s.DeactivateConnection(conn.ID))
	_, err = s.GetConnectionByUser("user-1")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeactivateConnection_NotFound(t *testing.T) {
	s := setupTestStore(t)
	assert.ErrorIs(t, s.DeactivateConnection("missing"), ErrRecordNotFound)
}

func TestBeginSync_ConcurrencyGuard(t *testing.T) {
	s := setupTestStore(t)
	conn := createTestConnection(t, s, "user-1")

	require.NoError(t, s.BeginSync(conn.ID, time.Now()))

	// A second run must not acquire the connection
	err := s.BeginSync(conn.ID, time.Now())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	// Releasing via failure allows the next run
	require.NoError(t, s.FinishSyncFailure(conn.ID, "upstream timeout"))
	assert.NoError(t, s.BeginSync(conn.ID, time.Now()))
}

func TestFinishSyncFailure_KeepsWatermark(t *testing.T) {
	s := setupTestStore(t)
	conn := createTestConnection(t, s, "user-1")

	firstSuccess := time.Now().Add(-time.Hour)
	require.NoError(t, s.BeginSync(conn.ID, firstSuccess))
	require.NoError(t, s.FinishSyncSuccess(conn.ID, firstSuccess))

	require.NoError(t, s.BeginSync(conn.ID, time.Now()))
	require.NoError(t, s.FinishSyncFailure(conn.ID, "boom"))

	got, err := s.GetConnection(conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusError, got.SyncStatus)
	assert.Equal(t, "boom", got.LastError)
	require.NotNil(t, got.LastSuccessfulSyncAt)
	assert.WithinDuration(t, firstSuccess, *got.LastSuccessfulSyncAt, time.Second)
}

func TestDueConnections(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	// Never synced: always due
	neverSynced := createTestConnection(t, s, "user-1")

	// Synced recently: not due
	recent := createTestConnection(t, s, "user-2")
	require.NoError(t, s.BeginSync(recent.ID, now))
	require.NoError(t, s.FinishSyncSuccess(recent.ID, now))

	// Synced long ago: due
	stale := createTestConnection(t, s, "user-3")
	past := now.Add(-2 * time.Hour)
	require.NoError(t, s.BeginSync(stale.ID, past))
	require.NoError(t, s.FinishSyncSuccess(stale.ID, past))

	// Inactive: never due
	inactive := createTestConnection(t, s, "user-4")
	require.NoError(t, s.DeactivateConnection(inactive.ID))

	due, err := s.DueConnections(10, now)
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, c := range due {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, neverSynced.ID)
	assert.Contains(t, ids, stale.ID)
	assert.NotContains(t, ids, recent.ID)
	assert.NotContains(t, ids, inactive.ID)
}

func TestDueConnections_Limit(t *testing.T) {
	s := setupTestStore(t)
	for i := 0; i < 5; i++ {
		createTestConnection(t, s, uuid.New().String())
	}

	due, err := s.DueConnections(2, time.Now())
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestCountActiveConnections(t *testing.T) {
	s := setupTestStore(t)
	createTestConnection(t, s, "user-1")
	conn := createTestConnection(t, s, "user-2")
	require.NoError(t, s.DeactivateConnection(conn.ID))

	count, err := s.CountActiveConnections()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNewPaginationParams(t *testing.T) {
	p := NewPaginationParams(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = NewPaginationParams(3, 50)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PageSize)
	assert.Equal(t, 100, p.Offset())

	p = NewPaginationParams(1, 1000)
	assert.Equal(t, 20, p.PageSize)
}
