package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/metrics"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/vault"
)

const testEncryptionKey = "test-encryption-key-0123456789abcdef"

func setupTestStore(t *testing.T) *store.Store {
	// Use in-memory SQLite database for testing
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	return s
}

func newTestVault(t *testing.T) *vault.Vault {
	v, err := vault.New(testEncryptionKey)
	require.NoError(t, err)
	return v
}

func testConfig() *config.Config {
	return &config.Config{
		EncryptionKey:           testEncryptionKey,
		EntryPageSize:           config.MaxEntryPageSize,
		FullSyncLookbackDays:    90,
		IncrementalFallbackDays: 7,
		SyncBatchLimit:          10,
	}
}

func disabledAudit(t *testing.T, s *store.Store) *AuditService {
	return NewAuditService(s, false, 0)
}

// fakeTracker is a configurable TimeTracker test double. Unset methods
// fail loudly so tests only exercise the calls they expect.
type fakeTracker struct {
	currentUserFn     func(ctx context.Context) (*clockify.User, error)
	workspacesFn      func(ctx context.Context) ([]clockify.Workspace, error)
	projectsFn        func(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error)
	createProjectFn   func(ctx context.Context, workspaceID string, req clockify.CreateProjectRequest) (*clockify.Project, error)
	timeEntriesFn     func(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error)
	createTimeEntryFn func(ctx context.Context, workspaceID string, req clockify.CreateTimeEntryRequest) (*clockify.TimeEntry, error)
	updateTimeEntryFn func(ctx context.Context, workspaceID, entryID string, req clockify.UpdateTimeEntryRequest) (*clockify.TimeEntry, error)
}

var _ TimeTracker = (*fakeTracker)(nil)

func (f *fakeTracker) CurrentUser(ctx context.Context) (*clockify.User, error) {
	if f.currentUserFn == nil {
		panic("fakeTracker: unexpected CurrentUser call")
	}
	return f.currentUserFn(ctx)
}

func (f *fakeTracker) Workspaces(ctx context.Context) ([]clockify.Workspace, error) {
	if f.workspacesFn == nil {
		panic("fakeTracker: unexpected Workspaces call")
	}
	return f.workspacesFn(ctx)
}

func (f *fakeTracker) Projects(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error) {
	if f.projectsFn == nil {
		panic("fakeTracker: unexpected Projects call")
	}
	return f.projectsFn(ctx, workspaceID, includeArchived)
}

func (f *fakeTracker) CreateProject(ctx context.Context, workspaceID string, req clockify.CreateProjectRequest) (*clockify.Project, error) {
	if f.createProjectFn == nil {
		panic("fakeTracker: unexpected CreateProject call")
	}
	return f.createProjectFn(ctx, workspaceID, req)
}

func (f *fakeTracker) TimeEntries(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error) {
	if f.timeEntriesFn == nil {
		panic("fakeTracker: unexpected TimeEntries call")
	}
	return f.timeEntriesFn(ctx, workspaceID, userID, window, pageSize)
}

func (f *fakeTracker) CreateTimeEntry(ctx context.Context, workspaceID string, req clockify.CreateTimeEntryRequest) (*clockify.TimeEntry, error) {
	if f.createTimeEntryFn == nil {
		panic("fakeTracker: unexpected CreateTimeEntry call")
	}
	return f.createTimeEntryFn(ctx, workspaceID, req)
}

func (f *fakeTracker) UpdateTimeEntry(ctx context.Context, workspaceID, entryID string, req clockify.UpdateTimeEntryRequest) (*clockify.TimeEntry, error) {
	if f.updateTimeEntryFn == nil {
		panic("fakeTracker: unexpected UpdateTimeEntry call")
	}
	return f.updateTimeEntryFn(ctx, workspaceID, entryID, req)
}

// staticFactory returns the same tracker for every API key.
func staticFactory(tracker TimeTracker) ClientFactory {
	return func(apiKey string) (TimeTracker, error) {
		return tracker, nil
	}
}

func noopRecorder() core.Recorder {
	return metrics.NewNoopMetrics()
}
