package services

import "errors"

var (
	// ErrNoConnection indicates the user has no active time-tracking
	// connection.
	ErrNoConnection = errors.New("no active time-tracking connection")

	// ErrConnectionInactive indicates a sync was requested against a
	// disconnected connection.
	ErrConnectionInactive = errors.New("connection is inactive")

	// ErrWorkspaceNotFound indicates the requested workspace is not
	// visible to the supplied API key.
	ErrWorkspaceNotFound = errors.New("workspace not visible to API key")

	// ErrTimerAlreadyRunning indicates a start-timer request while a
	// timer is already open.
	ErrTimerAlreadyRunning = errors.New("a timer is already running")

	// ErrNoRunningTimer indicates a stop-timer request with no open
	// timer.
	ErrNoRunningTimer = errors.New("no timer is running")

	// ErrSnapshotFrozen indicates an attempted recalculation of a
	// user-frozen snapshot.
	ErrSnapshotFrozen = errors.New("snapshot is frozen")

	// ErrWeekNotRecalculable indicates an attempted recalculation of
	// the current or a future week. Those weeks are live data.
	ErrWeekNotRecalculable = errors.New("only past weeks can be recalculated")

	// ErrSnapshotNotFound indicates no snapshot exists for the
	// requested week.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrGoalNotFound indicates the referenced goal does not exist or
	// is not owned by the caller.
	ErrGoalNotFound = errors.New("goal not found")
)
