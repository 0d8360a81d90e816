package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrSyncInProgress is returned by BeginSync when another sync run
	// already holds the connection (0 rows updated by the conditional
	// status transition).
	ErrSyncInProgress = errors.New("sync already in progress for connection")

	// ErrSnapshotExists is returned when creating a snapshot for a
	// (user, week) that already has one.
	ErrSnapshotExists = errors.New("snapshot already exists for week")
)
