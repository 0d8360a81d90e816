package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/vault"
)

func createSyncedConnection(t *testing.T, s *store.Store, v *vault.Vault, userID string) *models.ClockifyConnection {
	encrypted, err := v.Encrypt("api-key-1")
	require.NoError(t, err)

	conn, err := s.UpsertConnection(&models.ClockifyConnection{
		UserID:          userID,
		WorkspaceID:     "ws-1",
		ExternalUserID:  "ext-user-1",
		APIKeyEncrypted: encrypted,
		AutoSync:        true,
	})
	require.NoError(t, err)
	return conn
}

func newSyncService(t *testing.T, s *store.Store, tracker TimeTracker) (*SyncService, *vault.Vault) {
	v := newTestVault(t)
	svc := NewSyncService(s, v, staticFactory(tracker), disabledAudit(t, s), noopRecorder(), testConfig())
	return svc, v
}

func externalEntry(id, description, projectID string, start, end time.Time) clockify.TimeEntry {
	return clockify.TimeEntry{
		ID:          id,
		Description: description,
		ProjectID:   projectID,
		Billable:    false,
		TimeInterval: clockify.TimeInterval{
			Start: clockify.FormatTime(start),
			End:   clockify.FormatTime(end),
		},
	}
}

func TestSync_ImportThenUpdateOnRerun(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	entries := []clockify.TimeEntry{
		externalEntry("ext-1", "deep work", "", now.Add(-2*time.Hour), now.Add(-time.Hour)),
		externalEntry("ext-2", "review", "", now.Add(-4*time.Hour), now.Add(-3*time.Hour)),
	}
	tracker := &fakeTracker{
		projectsFn: func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
			assert.False(t, includeArchived)
			return nil, nil
		},
		timeEntriesFn: func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
			return entries, nil
		},
	}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	result, err := svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)
	assert.Equal(t, 2, result.EntriesImported)
	assert.Equal(t, 0, result.EntriesUpdated)
	assert.NotEmpty(t, result.SyncLogID)
	assert.Equal(t, config.SyncTypeFull, result.SyncType)

	// Re-running the same window duplicates nothing: existing rows count
	// as updated, and skipped stays a pure failure counter
	result, err = svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)
	assert.Equal(t, 0, result.EntriesImported)
	assert.Equal(t, 2, result.EntriesUpdated)
	assert.Equal(t, 0, result.EntriesSkipped)

	got, err := s.GetTimeEntryByExternalID("user-1", "ext-1")
	require.NoError(t, err)
	assert.Equal(t, models.EntrySourceExternal, got.Source)
	assert.Equal(t, models.EntrySyncSynced, got.SyncStatus)

	// Connection carries the success watermark
	reloaded, err := s.GetConnection(conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSuccess, reloaded.SyncStatus)
	assert.NotNil(t, reloaded.LastSuccessfulSyncAt)
}

func TestSync_UpdatesChangedEntry(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	entry := externalEntry("ext-1", "deep work", "", now.Add(-2*time.Hour), now.Add(-time.Hour))
	tracker := &fakeTracker{
		projectsFn: func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
			return nil, nil
		},
		timeEntriesFn: func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
			return []clockify.TimeEntry{entry}, nil
		},
	}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	_, err := svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)

	// Upstream edit: description changed
	entry.Description = "deep work (edited)"

	result, err := svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EntriesUpdated)

	got, err := s.GetTimeEntryByExternalID("user-1", "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "deep work (edited)", got.Description)
}

func TestSync_MapsEntriesToGoals(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	tracker := &fakeTracker{
		projectsFn: func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
			return []clockify.Project{{ID: "proj-ext-1", Name: "Learning"}}, nil
		},
		timeEntriesFn: func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
			return []clockify.TimeEntry{
				externalEntry("ext-1", "reading", "proj-ext-1", now.Add(-2*time.Hour), now.Add(-time.Hour)),
			}, nil
		},
	}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	// Pre-existing project cache row and goal mapping
	project, err := s.UpsertProject(&models.ClockifyProject{
		ConnectionID: conn.ID,
		ExternalID:   "proj-ext-1",
		Name:         "Learning",
		FetchedAt:    now,
	})
	require.NoError(t, err)
	_, err = s.CreateMapping("user-1", "goal-1", project.ID)
	require.NoError(t, err)

	_, err = svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)

	got, err := s.GetTimeEntryByExternalID("user-1", "ext-1")
	require.NoError(t, err)
	require.NotNil(t, got.GoalID)
	assert.Equal(t, "goal-1", *got.GoalID)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, project.ID, *got.ProjectID)
}

func TestSync_ConcurrencyGuard(t *testing.T) {
	s := setupTestStore(t)
	tracker := &fakeTracker{}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	// Another run holds the connection
	require.NoError(t, s.BeginSync(conn.ID, time.Now()))

	_, err := svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeIncremental)
	assert.ErrorIs(t, err, store.ErrSyncInProgress)
}

func TestSync_FailureReleasesGuardAndKeepsWatermark(t *testing.T) {
	s := setupTestStore(t)

	failing := true
	tracker := &fakeTracker{
		projectsFn: func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
			return nil, nil
		},
		timeEntriesFn: func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
			if failing {
				return nil, &clockify.APIError{StatusCode: 500, Message: "upstream down"}
			}
			return nil, nil
		},
	}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	// Seed a success watermark
	failing = false
	_, err := svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)
	seeded, err := s.GetConnection(conn.ID)
	require.NoError(t, err)
	require.NotNil(t, seeded.LastSuccessfulSyncAt)
	watermark := *seeded.LastSuccessfulSyncAt

	failing = true
	_, err = svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeIncremental)
	require.Error(t, err)

	got, err := s.GetConnection(conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusError, got.SyncStatus)
	assert.Contains(t, got.LastError, "upstream down")
	// The failed window is re-covered next time
	require.NotNil(t, got.LastSuccessfulSyncAt)
	assert.WithinDuration(t, watermark, *got.LastSuccessfulSyncAt, time.Second)

	// Guard is released: the next run may proceed
	failing = false
	_, err = svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeIncremental)
	assert.NoError(t, err)

	// History keeps one failed log
	logs, _, err := s.ListSyncLogs(conn.ID, store.NewPaginationParams(1, 20))
	require.NoError(t, err)
	var failed int
	for _, l := range logs {
		if l.Status == models.SyncLogFailed {
			failed++
			assert.Contains(t, l.ErrorMessage, "upstream down")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestSync_BadEntryIsSkippedNotFatal(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	tracker := &fakeTracker{
		projectsFn: func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
			return nil, nil
		},
		timeEntriesFn: func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
			return []clockify.TimeEntry{
				{ID: "broken", TimeInterval: clockify.TimeInterval{Start: "not-a-time"}},
				externalEntry("ext-1", "fine", "", now.Add(-time.Hour), now),
			}, nil
		},
	}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	result, err := svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EntriesImported)
	assert.Equal(t, 1, result.EntriesSkipped)
}

func TestSync_OwnershipAndState(t *testing.T) {
	s := setupTestStore(t)
	tracker := &fakeTracker{}

	svc, v := newSyncService(t, s, tracker)
	conn := createSyncedConnection(t, s, v, "user-1")

	_, err := svc.Sync(context.Background(), "user-2", conn.ID, config.SyncTypeFull)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, s.DeactivateConnection(conn.ID))
	_, err = svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	assert.ErrorIs(t, err, ErrConnectionInactive)
}

func TestSyncWindow(t *testing.T) {
	s := setupTestStore(t)
	svc, _ := newSyncService(t, s, &fakeTracker{})
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	conn := &models.ClockifyConnection{}

	full := svc.window(conn, config.SyncTypeFull, now)
	assert.Equal(t, now.AddDate(0, 0, -90), full.Start)
	assert.Equal(t, now, full.End)

	// Incremental with no history falls back to a short window
	incr := svc.window(conn, config.SyncTypeIncremental, now)
	assert.Equal(t, now.AddDate(0, 0, -7), incr.Start)

	// Incremental resumes from the last success
	last := now.Add(-3 * time.Hour)
	conn.LastSuccessfulSyncAt = &last
	incr = svc.window(conn, config.SyncTypeIncremental, now)
	assert.Equal(t, last, incr.Start)
	assert.Equal(t, now, incr.End)
}

func TestListLogs_Ownership(t *testing.T) {
	s := setupTestStore(t)
	svc, v := newSyncService(t, s, &fakeTracker{})
	conn := createSyncedConnection(t, s, v, "user-1")

	_, _, err := svc.ListLogs("user-2", conn.ID, store.NewPaginationParams(1, 20))
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	// History stays readable after a disconnect
	require.NoError(t, s.DeactivateConnection(conn.ID))
	_, _, err = svc.ListLogs("user-1", conn.ID, store.NewPaginationParams(1, 20))
	assert.NoError(t, err)
}

func TestSyncDueConnections(t *testing.T) {
	s := setupTestStore(t)
	tracker := &fakeTracker{
		projectsFn: func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
			return nil, nil
		},
		timeEntriesFn: func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
			return nil, nil
		},
	}
	svc, v := newSyncService(t, s, tracker)

	createSyncedConnection(t, s, v, "user-1")
	busy := createSyncedConnection(t, s, v, "user-2")

	// user-2's connection is mid-sync and must be skipped, not failed
	require.NoError(t, s.BeginSync(busy.ID, time.Now().Add(-2*time.Hour)))

	result, err := svc.SyncDueConnections(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Failed)
}

func TestEntryChangedHelpers(t *testing.T) {
	a := time.Now()
	b := a.Add(time.Minute)

	assert.True(t, timePtrEqual(nil, nil))
	assert.True(t, timePtrEqual(&a, &a))
	assert.False(t, timePtrEqual(&a, &b))
	assert.False(t, timePtrEqual(&a, nil))

	x, y := "x", "y"
	assert.True(t, strPtrEqual(nil, nil))
	assert.True(t, strPtrEqual(&x, &x))
	assert.False(t, strPtrEqual(&x, &y))
	assert.False(t, strPtrEqual(nil, &x))
}

func TestSync_DecryptFailure(t *testing.T) {
	s := setupTestStore(t)
	svc, _ := newSyncService(t, s, &fakeTracker{})

	// Connection whose credential was encrypted with a different key
	otherVault, err := vault.New("another-encryption-key-9876543210zyxw")
	require.NoError(t, err)
	conn := createSyncedConnection(t, s, otherVault, "user-1")

	_, err = svc.Sync(context.Background(), "user-1", conn.ID, config.SyncTypeFull)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vault.ErrDecryptFailed))
}
