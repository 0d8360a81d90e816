package services

import (
	"context"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
)

// TimeTracker is the slice of the external time-tracking API the
// services consume. Satisfied by *clockify.Client; tests substitute
// fakes.
type TimeTracker interface {
	CurrentUser(ctx context.Context) (*clockify.User, error)
	Workspaces(ctx context.Context) ([]clockify.Workspace, error)
	Projects(ctx context.Context, workspaceID string, includeArchived bool) ([]clockify.Project, error)
	CreateProject(ctx context.Context, workspaceID string, req clockify.CreateProjectRequest) (*clockify.Project, error)
	TimeEntries(ctx context.Context, workspaceID, userID string, window clockify.EntryWindow, pageSize int) ([]clockify.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, workspaceID string, req clockify.CreateTimeEntryRequest) (*clockify.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, workspaceID, entryID string, req clockify.UpdateTimeEntryRequest) (*clockify.TimeEntry, error)
}

// ClientFactory builds a TimeTracker bound to one API key. Each
// connection carries its own key, so clients are constructed per
// operation from the decrypted credential.
type ClientFactory func(apiKey string) (TimeTracker, error)
