package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/util"
)

// hoursPerWeek is the gross weekly budget snapshots start from before
// recurring commitments are subtracted.
const hoursPerWeek = 24 * 7

// ChangeReport is the result of a staleness check against a stored
// snapshot.
type ChangeReport struct {
	HasSnapshot    bool   `json:"has_snapshot"`
	HasChanges     bool   `json:"has_changes"`
	CanRecalculate bool   `json:"can_recalculate"`
	IsFrozen       bool   `json:"is_frozen"`
	SnapshotID     string `json:"snapshot_id,omitempty"`
}

// SnapshotService creates weekly snapshots of the user's goal and
// recurring-event configuration and detects when a stored snapshot has
// drifted from the live data.
type SnapshotService struct {
	store   *store.Store
	audit   *AuditService
	metrics core.Recorder
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(s *store.Store, audit *AuditService, metrics core.Recorder) *SnapshotService {
	return &SnapshotService{store: s, audit: audit, metrics: metrics}
}

// Hash computes a deterministic, order-independent digest over the
// meaningful fields of the goals and events. Used for staleness
// detection only.
func Hash(goals []models.Goal, events []models.RecurringEvent) string {
	lines := make([]string, 0, len(goals)+len(events))
	for _, g := range goals {
		lines = append(lines, fmt.Sprintf(
			"goal|%s|%s|%.4f|%.4f",
			g.ID, g.Name, g.TimeAllocated, g.TimeCompleted,
		))
	}
	for _, e := range events {
		lines = append(lines, fmt.Sprintf(
			"event|%s|%s|%d|%s|%s|%.4f",
			e.ID, e.Name, e.DayOfWeek, e.StartTime, e.EndTime, e.Hours,
		))
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// CheckChanges compares the stored snapshot for the week against the
// user's current goals and events. The present and future weeks are
// live and never recalculated through this path.
func (s *SnapshotService) CheckChanges(userID string, weekOffset int) (*ChangeReport, error) {
	weekStart, _ := util.WeekWindow(time.Now(), weekOffset)

	snap, err := s.store.GetSnapshotByWeek(userID, weekStart)
	if errors.Is(err, store.ErrRecordNotFound) {
		return &ChangeReport{HasSnapshot: false}, nil
	}
	if err != nil {
		return nil, err
	}

	goals, events, err := s.liveData(userID)
	if err != nil {
		return nil, err
	}

	return &ChangeReport{
		HasSnapshot:    true,
		HasChanges:     Hash(goals, events) != snap.ContentHash,
		CanRecalculate: weekOffset < 0,
		IsFrozen:       snap.IsFrozen,
		SnapshotID:     snap.ID,
	}, nil
}

// GetSnapshot returns the stored snapshot for the week, children
// included.
func (s *SnapshotService) GetSnapshot(userID string, weekOffset int) (*models.WeeklySnapshot, error) {
	weekStart, _ := util.WeekWindow(time.Now(), weekOffset)
	snap, err := s.store.GetSnapshotByWeek(userID, weekStart)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	return snap, err
}

// Create builds and stores the snapshot for the week from the user's
// current goals and events.
func (s *SnapshotService) Create(ctx context.Context, userID string, weekOffset int) (*models.WeeklySnapshot, error) {
	weekStart, weekEnd := util.WeekWindow(time.Now(), weekOffset)

	goals, events, err := s.liveData(userID)
	if err != nil {
		return nil, err
	}

	snap := buildSnapshot(userID, weekStart, weekEnd, goals, events)
	if err := s.store.CreateSnapshot(snap); err != nil {
		return nil, err
	}

	s.metrics.RecordSnapshotCreated()
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSnapshotCreated,
		Severity:     models.SeverityInfo,
		ActorUserID:  userID,
		ResourceType: models.ResourceSnapshot,
		ResourceID:   snap.ID,
		Action:       "create-snapshot",
		Details:      models.AuditDetails{"week_start": weekStart.Format("2006-01-02")},
		Success:      true,
	})
	return snap, nil
}

// Recalculate rebuilds a stored snapshot from the current goals and
// events: parent stats and hash are overwritten and all child rows are
// deleted and regenerated. Frozen snapshots are immutable, and only
// past weeks are recalculable; the current and future weeks are live.
func (s *SnapshotService) Recalculate(ctx context.Context, userID string, weekOffset int) (*models.WeeklySnapshot, error) {
	if weekOffset >= 0 {
		s.metrics.RecordSnapshotRecalculated("live")
		return nil, ErrWeekNotRecalculable
	}

	weekStart, weekEnd := util.WeekWindow(time.Now(), weekOffset)

	snap, err := s.store.GetSnapshotByWeek(userID, weekStart)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	if snap.IsFrozen {
		s.metrics.RecordSnapshotRecalculated("frozen")
		return nil, ErrSnapshotFrozen
	}

	goals, events, err := s.liveData(userID)
	if err != nil {
		return nil, err
	}

	rebuilt := buildSnapshot(userID, weekStart, weekEnd, goals, events)
	rebuilt.ID = snap.ID
	if err := s.store.ReplaceSnapshot(rebuilt); err != nil {
		s.metrics.RecordSnapshotRecalculated("error")
		return nil, err
	}

	s.metrics.RecordSnapshotRecalculated("success")
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSnapshotRecalculated,
		Severity:     models.SeverityInfo,
		ActorUserID:  userID,
		ResourceType: models.ResourceSnapshot,
		ResourceID:   snap.ID,
		Action:       "recalculate-snapshot",
		Success:      true,
	})
	return s.store.GetSnapshot(userID, snap.ID)
}

// Freeze marks a snapshot immutable.
func (s *SnapshotService) Freeze(userID, snapshotID string) error {
	return s.store.FreezeSnapshot(userID, snapshotID)
}

func (s *SnapshotService) liveData(userID string) ([]models.Goal, []models.RecurringEvent, error) {
	goals, err := s.store.ListGoals(userID, true)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.store.ListRecurringEvents(userID, true)
	if err != nil {
		return nil, nil, err
	}
	return goals, events, nil
}

// buildSnapshot derives the aggregate statistics and child rows.
// Free time = available − allocated; negative values signal
// overcommitment and are surfaced as-is.
func buildSnapshot(
	userID string,
	weekStart, weekEnd time.Time,
	goals []models.Goal,
	events []models.RecurringEvent,
) *models.WeeklySnapshot {
	var eventHours, allocated, completed float64
	for _, e := range events {
		eventHours += e.Hours
	}
	for _, g := range goals {
		allocated += g.TimeAllocated
		completed += g.TimeCompleted
	}
	available := hoursPerWeek - eventHours

	snap := &models.WeeklySnapshot{
		UserID:              userID,
		WeekStart:           weekStart,
		WeekEnd:             weekEnd,
		TotalAvailableHours: available,
		TotalAllocatedHours: allocated,
		TotalCompletedHours: completed,
		FreeTimeHours:       available - allocated,
		ContentHash:         Hash(goals, events),
	}

	for _, g := range goals {
		snap.Goals = append(snap.Goals, models.GoalSnapshot{
			GoalID:         g.ID,
			Name:           g.Name,
			TimeAllocated:  g.TimeAllocated,
			TimeCompleted:  g.TimeCompleted,
			ScheduledHours: g.TimeAllocated,
		})
	}
	for _, e := range events {
		snap.Events = append(snap.Events, models.RecurringEventSnapshot{
			EventID:   e.ID,
			Name:      e.Name,
			DayOfWeek: e.DayOfWeek,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Hours:     e.Hours,
		})
	}
	return snap
}
