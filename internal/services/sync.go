package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/vault"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	SyncLogID       string `json:"sync_log_id"`
	SyncType        string `json:"sync_type"`
	EntriesImported int    `json:"entries_imported"`
	EntriesUpdated  int    `json:"entries_updated"`
	EntriesSkipped  int    `json:"entries_skipped"`
}

// SyncService imports external time entries into local storage. One run
// covers a time window (full lookback or incremental since the last
// success), refreshes the project cache, and reconciles entries by
// their external ID so re-running a window never duplicates rows.
type SyncService struct {
	store   *store.Store
	vault   *vault.Vault
	clients ClientFactory
	audit   *AuditService
	metrics core.Recorder

	entryPageSize           int
	fullLookbackDays        int
	incrementalFallbackDays int
}

// NewSyncService creates a sync service.
func NewSyncService(
	s *store.Store,
	v *vault.Vault,
	clients ClientFactory,
	audit *AuditService,
	metrics core.Recorder,
	cfg *config.Config,
) *SyncService {
	return &SyncService{
		store:                   s,
		vault:                   v,
		clients:                 clients,
		audit:                   audit,
		metrics:                 metrics,
		entryPageSize:           cfg.EntryPageSize,
		fullLookbackDays:        cfg.FullSyncLookbackDays,
		incrementalFallbackDays: cfg.IncrementalFallbackDays,
	}
}

// Sync runs a sync for a connection owned by the user. syncType is
// "full" or "incremental"; anything else falls back to incremental.
func (s *SyncService) Sync(
	ctx context.Context,
	userID, connectionID, syncType string,
) (*SyncResult, error) {
	conn, err := s.store.GetConnection(connectionID)
	if err != nil {
		return nil, err
	}
	if conn.UserID != userID {
		return nil, store.ErrRecordNotFound
	}
	return s.syncConnection(ctx, conn, syncType)
}

// SyncConnectionByID runs a sync without an ownership check. Used by
// the background paths (initial sync after connect, scheduler).
func (s *SyncService) SyncConnectionByID(
	ctx context.Context,
	connectionID, syncType string,
) (*SyncResult, error) {
	conn, err := s.store.GetConnection(connectionID)
	if err != nil {
		return nil, err
	}
	return s.syncConnection(ctx, conn, syncType)
}

func (s *SyncService) syncConnection(
	ctx context.Context,
	conn *models.ClockifyConnection,
	syncType string,
) (*SyncResult, error) {
	if !conn.IsActive {
		return nil, ErrConnectionInactive
	}
	if syncType != config.SyncTypeFull {
		syncType = config.SyncTypeIncremental
	}

	started := time.Now()

	// Concurrency guard: only one run may hold the connection.
	if err := s.store.BeginSync(conn.ID, started); err != nil {
		if errors.Is(err, store.ErrSyncInProgress) {
			s.metrics.RecordSyncRun(syncType, "conflict", time.Since(started))
		}
		return nil, err
	}

	syncLog := &models.SyncLog{
		ConnectionID: conn.ID,
		SyncType:     syncType,
		Direction:    models.SyncDirectionImport,
		Status:       models.SyncLogStarted,
		StartedAt:    started,
	}
	if err := s.store.CreateSyncLog(syncLog); err != nil {
		// Release the guard; the run never happened.
		_ = s.store.FinishSyncFailure(conn.ID, err.Error())
		return nil, err
	}

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSyncStarted,
		Severity:     models.SeverityInfo,
		ActorUserID:  conn.UserID,
		ResourceType: models.ResourceConnection,
		ResourceID:   conn.ID,
		Action:       "sync:" + syncType,
		Success:      true,
	})

	result, runErr := s.run(ctx, conn, syncType, started)
	completed := time.Now()

	if runErr != nil {
		_ = s.store.FinishSyncFailure(conn.ID, runErr.Error())
		_ = s.store.CompleteSyncLog(
			syncLog.ID, models.SyncLogFailed, completed,
			0, 0, 0, runErr.Error(),
		)
		s.metrics.RecordSyncRun(syncType, "error", completed.Sub(started))
		s.audit.Log(ctx, AuditLogEntry{
			EventType:    models.EventSyncFailed,
			Severity:     models.SeverityError,
			ActorUserID:  conn.UserID,
			ResourceType: models.ResourceConnection,
			ResourceID:   conn.ID,
			Action:       "sync:" + syncType,
			Success:      false,
			ErrorMessage: runErr.Error(),
		})
		return nil, runErr
	}

	if err := s.store.FinishSyncSuccess(conn.ID, completed); err != nil {
		return nil, err
	}
	if err := s.store.CompleteSyncLog(
		syncLog.ID, models.SyncLogCompleted, completed,
		result.EntriesImported, result.EntriesUpdated, result.EntriesSkipped, "",
	); err != nil {
		return nil, err
	}

	result.SyncLogID = syncLog.ID
	result.SyncType = syncType

	s.metrics.RecordSyncRun(syncType, "success", completed.Sub(started))
	s.metrics.RecordEntriesReconciled("imported", result.EntriesImported)
	s.metrics.RecordEntriesReconciled("updated", result.EntriesUpdated)
	s.metrics.RecordEntriesReconciled("skipped", result.EntriesSkipped)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSyncCompleted,
		Severity:     models.SeverityInfo,
		ActorUserID:  conn.UserID,
		ResourceType: models.ResourceConnection,
		ResourceID:   conn.ID,
		Action:       "sync:" + syncType,
		Details: models.AuditDetails{
			"imported": result.EntriesImported,
			"updated":  result.EntriesUpdated,
			"skipped":  result.EntriesSkipped,
		},
		Success: true,
	})
	return result, nil
}

// run executes the fetch-and-reconcile body of a sync. The caller owns
// the guard and the sync log.
func (s *SyncService) run(
	ctx context.Context,
	conn *models.ClockifyConnection,
	syncType string,
	now time.Time,
) (*SyncResult, error) {
	apiKey, err := s.vault.Decrypt(conn.APIKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt credential: %w", err)
	}
	client, err := s.clients(apiKey)
	if err != nil {
		return nil, err
	}

	// Project cache refresh is best-effort: a failure here degrades
	// mapping resolution but must not abort the entry import.
	s.refreshProjects(ctx, client, conn)

	mappings, err := s.store.GetProjectMappings(conn.UserID)
	if err != nil {
		return nil, err
	}
	goalByExternal := make(map[string]string, len(mappings))
	localByExternal := make(map[string]string, len(mappings))
	for _, m := range mappings {
		goalByExternal[m.ExternalProjectID] = m.GoalID
		localByExternal[m.ExternalProjectID] = m.LocalProjectID
	}

	window := s.window(conn, syncType, now)

	start := time.Now()
	entries, err := client.TimeEntries(
		ctx, conn.WorkspaceID, conn.ExternalUserID, window, s.entryPageSize,
	)
	s.metrics.RecordExternalAPICall("time_entries", time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("fetch time entries: %w", err)
	}

	result := &SyncResult{}
	for i := range entries {
		action, err := s.reconcile(conn, &entries[i], goalByExternal, localByExternal, now)
		if err != nil {
			// One bad entry never aborts the run.
			log.Printf("sync %s: entry %s skipped: %v", conn.ID, entries[i].ID, err)
			result.EntriesSkipped++
			continue
		}
		if action == "imported" {
			result.EntriesImported++
		} else {
			result.EntriesUpdated++
		}
	}
	return result, nil
}

// window computes the fetch window. Full syncs look back a fixed number
// of days; incremental syncs resume from the last successful run, with
// a short fallback when there has never been one.
func (s *SyncService) window(
	conn *models.ClockifyConnection,
	syncType string,
	now time.Time,
) clockify.EntryWindow {
	if syncType == config.SyncTypeFull {
		return clockify.EntryWindow{
			Start: now.AddDate(0, 0, -s.fullLookbackDays),
			End:   now,
		}
	}
	if conn.LastSuccessfulSyncAt != nil {
		return clockify.EntryWindow{Start: *conn.LastSuccessfulSyncAt, End: now}
	}
	return clockify.EntryWindow{
		Start: now.AddDate(0, 0, -s.incrementalFallbackDays),
		End:   now,
	}
}

func (s *SyncService) refreshProjects(
	ctx context.Context,
	client TimeTracker,
	conn *models.ClockifyConnection,
) {
	start := time.Now()
	projects, err := client.Projects(ctx, conn.WorkspaceID, false)
	s.metrics.RecordExternalAPICall("projects", time.Since(start), err == nil)
	if err != nil {
		log.Printf("sync %s: project refresh failed: %v", conn.ID, err)
		return
	}

	cached := 0
	fetchedAt := time.Now()
	for _, p := range projects {
		_, err := s.store.UpsertProject(&models.ClockifyProject{
			ConnectionID: conn.ID,
			ExternalID:   p.ID,
			Name:         p.Name,
			ClientName:   p.ClientName,
			Color:        p.Color,
			Archived:     p.Archived,
			FetchedAt:    fetchedAt,
		})
		if err != nil {
			log.Printf("sync %s: cache project %s failed: %v", conn.ID, p.ID, err)
			continue
		}
		cached++
	}
	s.metrics.RecordProjectsCached(cached)
}

// reconcile upserts one external entry by its (user, external id) key.
// Returns the action taken, imported or updated; a failed entry is
// counted as skipped by the caller.
func (s *SyncService) reconcile(
	conn *models.ClockifyConnection,
	ext *clockify.TimeEntry,
	goalByExternal, localByExternal map[string]string,
	now time.Time,
) (string, error) {
	startTime, err := ext.TimeInterval.StartTime()
	if err != nil {
		return "", fmt.Errorf("parse start: %w", err)
	}
	endTime, err := ext.TimeInterval.EndTime()
	if err != nil {
		return "", fmt.Errorf("parse end: %w", err)
	}

	var projectID, goalID *string
	if ext.ProjectID != "" {
		if local, ok := localByExternal[ext.ProjectID]; ok {
			projectID = &local
		}
		if goal, ok := goalByExternal[ext.ProjectID]; ok {
			goalID = &goal
		}
	}

	var tagIDs datatypes.JSON
	if len(ext.TagIDs) > 0 {
		tagIDs, err = marshalTags(ext.TagIDs)
		if err != nil {
			return "", err
		}
	}

	existing, err := s.store.GetTimeEntryByExternalID(conn.UserID, ext.ID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		externalID := ext.ID
		entry := &models.TimeEntry{
			UserID:       conn.UserID,
			Description:  ext.Description,
			StartTime:    startTime,
			EndTime:      endTime,
			ExternalID:   &externalID,
			ProjectID:    projectID,
			GoalID:       goalID,
			Billable:     ext.Billable,
			TagIDs:       tagIDs,
			Source:       models.EntrySourceExternal,
			SyncStatus:   models.EntrySyncSynced,
			LastSyncedAt: &now,
		}
		if err := s.store.CreateTimeEntry(entry); err != nil {
			return "", err
		}
		return "imported", nil
	case err != nil:
		return "", err
	}

	// An existing row counts as updated whether or not anything changed;
	// skipped is reserved for entries that failed to reconcile. The
	// write is elided when the upstream copy matches.
	if !entryChanged(existing, ext, startTime, endTime, projectID, goalID) {
		return "updated", nil
	}

	existing.Description = ext.Description
	existing.StartTime = startTime
	existing.EndTime = endTime
	existing.ProjectID = projectID
	existing.GoalID = goalID
	existing.Billable = ext.Billable
	existing.TagIDs = tagIDs
	existing.SyncStatus = models.EntrySyncSynced
	existing.LastSyncedAt = &now
	if err := s.store.SaveTimeEntry(existing); err != nil {
		return "", err
	}
	return "updated", nil
}

// entryChanged reports whether the upstream entry differs from the
// local one on any imported field. Last write wins: upstream is the
// source of truth for external entries.
func entryChanged(
	local *models.TimeEntry,
	ext *clockify.TimeEntry,
	startTime time.Time,
	endTime *time.Time,
	projectID, goalID *string,
) bool {
	if local.Description != ext.Description {
		return true
	}
	if !local.StartTime.Equal(startTime) {
		return true
	}
	if !timePtrEqual(local.EndTime, endTime) {
		return true
	}
	if !strPtrEqual(local.ProjectID, projectID) {
		return true
	}
	if !strPtrEqual(local.GoalID, goalID) {
		return true
	}
	if local.Billable != ext.Billable {
		return true
	}
	return false
}

// ListLogs returns the sync history of a connection owned by the user.
// Inactive connections keep their history, so no is_active check here.
func (s *SyncService) ListLogs(
	userID, connectionID string,
	params store.PaginationParams,
) ([]models.SyncLog, store.Pagination, error) {
	conn, err := s.store.GetConnection(connectionID)
	if err != nil {
		return nil, store.Pagination{}, err
	}
	if conn.UserID != userID {
		return nil, store.Pagination{}, store.ErrRecordNotFound
	}
	return s.store.ListSyncLogs(connectionID, params)
}

// DueConnectionsResult summarizes one scheduler pass.
type DueConnectionsResult struct {
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// SyncDueConnections runs an incremental sync for every active
// auto-sync connection whose interval has elapsed, up to limit.
// A connection already syncing is skipped, not failed.
func (s *SyncService) SyncDueConnections(ctx context.Context, limit int) (*DueConnectionsResult, error) {
	due, err := s.store.DueConnections(limit, time.Now())
	if err != nil {
		return nil, err
	}

	result := &DueConnectionsResult{}
	for i := range due {
		_, err := s.syncConnection(ctx, &due[i], config.SyncTypeIncremental)
		switch {
		case errors.Is(err, store.ErrSyncInProgress):
			result.Skipped++
		case err != nil:
			log.Printf("scheduled sync failed for connection %s: %v", due[i].ID, err)
			result.Failed++
		default:
			result.Synced++
		}
	}
	return result, nil
}

func marshalTags(tags []string) (datatypes.JSON, error) {
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
