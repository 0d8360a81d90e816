package clockify

import "time"

// User is the external API's representation of the key's owner.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	DefaultWorkspace string `json:"defaultWorkspace"`
	ActiveWorkspace  string `json:"activeWorkspace"`
}

// Workspace is a tenant/account in the external time-tracking service.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is an external project.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"clientName"`
	Color      string `json:"color"`
	Archived   bool   `json:"archived"`
	Billable   bool   `json:"billable"`
}

// CreateProjectRequest is the payload for creating an external project.
type CreateProjectRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	IsPublic bool   `json:"isPublic"`
	Billable bool   `json:"billable"`
}

// TimeInterval is the external representation of an entry's time span.
// End is empty while the entry is still running.
type TimeInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StartTime parses the interval start.
func (t TimeInterval) StartTime() (time.Time, error) {
	return time.Parse(time.RFC3339, t.Start)
}

// EndTime parses the interval end; nil means the entry is running.
func (t TimeInterval) EndTime() (*time.Time, error) {
	if t.End == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, t.End)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// TimeEntry is an external tracked time interval. ID is the
// reconciliation key against local records.
type TimeEntry struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	ProjectID    string       `json:"projectId"`
	WorkspaceID  string       `json:"workspaceId"`
	Billable     bool         `json:"billable"`
	TagIDs       []string     `json:"tagIds"`
	TimeInterval TimeInterval `json:"timeInterval"`
}

// CreateTimeEntryRequest is the payload for starting an external entry.
type CreateTimeEntryRequest struct {
	Start       string `json:"start"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	Billable    bool   `json:"billable"`
}

// UpdateTimeEntryRequest is the payload for a full entry update.
type UpdateTimeEntryRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"projectId,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
	Billable    bool     `json:"billable"`
}

// EntryWindow bounds a time-entry listing.
type EntryWindow struct {
	Start time.Time
	End   time.Time
}

// FormatTime renders a timestamp the way the external API expects:
// RFC 3339 in UTC with a trailing Z and no sub-second precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
