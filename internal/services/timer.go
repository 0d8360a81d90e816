package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/util"
	"github.com/peacepeacecreation/life-designer-sub003/internal/vault"
)

// TimerService starts and stops tracked time against goals. When the
// user has an active connection, timers are mirrored to the external
// service and the goal's external project is provisioned on first use.
type TimerService struct {
	store   *store.Store
	vault   *vault.Vault
	clients ClientFactory
	audit   *AuditService
	metrics core.Recorder
}

// NewTimerService creates a timer service.
func NewTimerService(
	s *store.Store,
	v *vault.Vault,
	clients ClientFactory,
	audit *AuditService,
	metrics core.Recorder,
) *TimerService {
	return &TimerService{
		store:   s,
		vault:   v,
		clients: clients,
		audit:   audit,
		metrics: metrics,
	}
}

// StartTimer opens a time entry for a goal. At most one timer may run
// per user. External mirroring is best-effort: if the external call
// fails the timer still starts locally, without an external id.
func (s *TimerService) StartTimer(
	ctx context.Context,
	userID, goalID, description string,
) (*models.TimeEntry, error) {
	goal, err := s.store.GetGoal(userID, goalID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetRunningEntry(userID); err == nil {
		return nil, ErrTimerAlreadyRunning
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	entry := &models.TimeEntry{
		UserID:      userID,
		Description: description,
		StartTime:   now,
		GoalID:      &goal.ID,
		Source:      models.EntrySourceLocal,
		SyncStatus:  models.EntrySyncPending,
	}

	// Mirror upstream when a connection exists. A provisioning or
	// create failure degrades to a local-only timer.
	conn, client := s.clientForUser(userID)
	if client != nil {
		req := clockify.CreateTimeEntryRequest{
			Start:       clockify.FormatTime(now),
			Description: description,
		}
		if project := s.ensureProjectForGoal(ctx, client, conn, goal); project != nil {
			entry.ProjectID = &project.ID
			req.ProjectID = project.ExternalID
		}

		start := time.Now()
		ext, err := client.CreateTimeEntry(ctx, conn.WorkspaceID, req)
		s.metrics.RecordExternalAPICall("create_time_entry", time.Since(start), err == nil)
		if err != nil {
			log.Printf("start timer: external create failed for user %s: %v", userID, err)
		} else {
			entry.ExternalID = &ext.ID
			entry.SyncStatus = models.EntrySyncSynced
			entry.LastSyncedAt = &now
		}
	}

	if err := s.store.CreateTimeEntry(entry); err != nil {
		return nil, err
	}

	s.metrics.RecordTimerStarted(entry.ProjectID != nil)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventTimerStarted,
		Severity:     models.SeverityInfo,
		ActorUserID:  userID,
		ResourceType: models.ResourceTimeEntry,
		ResourceID:   entry.ID,
		Action:       "start-timer",
		Details:      models.AuditDetails{"goal_id": goal.ID},
		Success:      true,
	})
	return entry, nil
}

// StopTimer closes the user's open timer, credits the elapsed hours to
// its goal, and pushes the end time upstream when the entry has an
// external id.
func (s *TimerService) StopTimer(ctx context.Context, userID string) (*models.TimeEntry, error) {
	entry, err := s.store.GetRunningEntry(userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrNoRunningTimer
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry.EndTime = &now

	if entry.ExternalID != nil {
		conn, client := s.clientForUser(userID)
		if client != nil {
			req := clockify.UpdateTimeEntryRequest{
				Start:       clockify.FormatTime(entry.StartTime),
				End:         clockify.FormatTime(now),
				Description: entry.Description,
				Billable:    entry.Billable,
			}
			if entry.ProjectID != nil {
				if p, err := s.store.GetProjectByLocalID(*entry.ProjectID); err == nil {
					req.ProjectID = p.ExternalID
				}
			}
			start := time.Now()
			_, err := client.UpdateTimeEntry(ctx, conn.WorkspaceID, *entry.ExternalID, req)
			s.metrics.RecordExternalAPICall("update_time_entry", time.Since(start), err == nil)
			if err != nil {
				// Local stop still wins; the next sync re-covers it.
				log.Printf("stop timer: external update failed for user %s: %v", userID, err)
				entry.SyncStatus = models.EntrySyncPending
			} else {
				entry.SyncStatus = models.EntrySyncSynced
				entry.LastSyncedAt = &now
			}
		}
	}

	if err := s.store.SaveTimeEntry(entry); err != nil {
		return nil, err
	}

	duration := entry.Duration(now)
	if entry.GoalID != nil {
		if err := s.store.AddGoalTime(userID, *entry.GoalID, duration.Hours()); err != nil {
			log.Printf("stop timer: credit goal %s failed: %v", *entry.GoalID, err)
		}
	}

	s.metrics.RecordTimerStopped(duration)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventTimerStopped,
		Severity:     models.SeverityInfo,
		ActorUserID:  userID,
		ResourceType: models.ResourceTimeEntry,
		ResourceID:   entry.ID,
		Action:       "stop-timer",
		Details:      models.AuditDetails{"duration_seconds": int64(duration.Seconds())},
		Success:      true,
	})
	return entry, nil
}

// CurrentTimer returns the user's open timer, or ErrNoRunningTimer.
func (s *TimerService) CurrentTimer(userID string) (*models.TimeEntry, error) {
	entry, err := s.store.GetRunningEntry(userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrNoRunningTimer
	}
	return entry, err
}

// WeeklyEntries lists the user's entries for the week containing ref.
func (s *TimerService) WeeklyEntries(userID string, ref time.Time) ([]models.TimeEntry, error) {
	start, end := util.WeekWindow(ref, 0)
	return s.store.ListEntriesInRange(userID, start, end)
}

// clientForUser builds a TimeTracker from the user's active connection.
// Returns nils when there is no usable connection; timers then stay
// local-only.
func (s *TimerService) clientForUser(userID string) (*models.ClockifyConnection, TimeTracker) {
	conn, err := s.store.GetConnectionByUser(userID)
	if err != nil {
		return nil, nil
	}
	apiKey, err := s.vault.Decrypt(conn.APIKeyEncrypted)
	if err != nil {
		log.Printf("timer: decrypt credential failed for connection %s: %v", conn.ID, err)
		return nil, nil
	}
	client, err := s.clients(apiKey)
	if err != nil {
		log.Printf("timer: build client failed for connection %s: %v", conn.ID, err)
		return nil, nil
	}
	return conn, client
}

// ensureProjectForGoal resolves the external project for a goal:
// reuse an active mapping, adopt a name-equal cached project, or create
// the project upstream. Any failure degrades to a nil project; starting
// a timer never fails on provisioning.
func (s *TimerService) ensureProjectForGoal(
	ctx context.Context,
	client TimeTracker,
	conn *models.ClockifyConnection,
	goal *models.Goal,
) *models.ClockifyProject {
	if mapping, err := s.store.GetMappingForGoal(goal.UserID, goal.ID); err == nil {
		if p, err := s.store.GetProjectByLocalID(mapping.ProjectID); err == nil {
			return p
		}
	}

	if p, err := s.store.GetProjectByName(conn.ID, goal.Name); err == nil {
		if _, err := s.store.CreateMapping(goal.UserID, goal.ID, p.ID); err != nil {
			log.Printf("timer: map goal %s to project %s failed: %v", goal.ID, p.ID, err)
			return nil
		}
		return p
	}

	start := time.Now()
	created, err := client.CreateProject(ctx, conn.WorkspaceID, clockify.CreateProjectRequest{
		Name:     goal.Name,
		Color:    goal.Color,
		Billable: false,
	})
	s.metrics.RecordExternalAPICall("create_project", time.Since(start), err == nil)
	if err != nil {
		if clockify.IsConflict(err) {
			// Lost a race or the cache is stale: re-fetch and adopt.
			return s.adoptExistingProject(ctx, client, conn, goal)
		}
		log.Printf("timer: create project for goal %s failed: %v", goal.ID, err)
		return nil
	}

	cached, err := s.store.UpsertProject(&models.ClockifyProject{
		ConnectionID: conn.ID,
		ExternalID:   created.ID,
		Name:         created.Name,
		ClientName:   created.ClientName,
		Color:        created.Color,
		Archived:     created.Archived,
		FetchedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("timer: cache created project %s failed: %v", created.ID, err)
		return nil
	}
	if _, err := s.store.CreateMapping(goal.UserID, goal.ID, cached.ID); err != nil {
		log.Printf("timer: map goal %s to project %s failed: %v", goal.ID, cached.ID, err)
		return nil
	}
	return cached
}

func (s *TimerService) adoptExistingProject(
	ctx context.Context,
	client TimeTracker,
	conn *models.ClockifyConnection,
	goal *models.Goal,
) *models.ClockifyProject {
	projects, err := client.Projects(ctx, conn.WorkspaceID, true)
	if err != nil {
		log.Printf("timer: adopt project for goal %s failed: %v", goal.ID, err)
		return nil
	}
	for _, p := range projects {
		if p.Name != goal.Name {
			continue
		}
		cached, err := s.store.UpsertProject(&models.ClockifyProject{
			ConnectionID: conn.ID,
			ExternalID:   p.ID,
			Name:         p.Name,
			ClientName:   p.ClientName,
			Color:        p.Color,
			Archived:     p.Archived,
			FetchedAt:    time.Now(),
		})
		if err != nil {
			return nil
		}
		if _, err := s.store.CreateMapping(goal.UserID, goal.ID, cached.ID); err != nil {
			return nil
		}
		return cached
	}
	return nil
}
