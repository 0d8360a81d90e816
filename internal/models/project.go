package models

import "time"

// ClockifyProject is a locally cached copy of an external project.
// Rows are upserted on every sync and never deleted automatically; the
// Archived flag mirrors the external state.
type ClockifyProject struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"                     json:"id"`
	ConnectionID string `gorm:"uniqueIndex:idx_conn_project,priority:1;not null" json:"connection_id"`
	ExternalID   string `gorm:"uniqueIndex:idx_conn_project,priority:2;not null" json:"external_id"`

	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	ClientName string `gorm:"type:varchar(255)"          json:"client_name"`
	Color      string `gorm:"type:varchar(16)"           json:"color"`
	Archived   bool   `gorm:"not null;default:false"     json:"archived"`

	FetchedAt time.Time `gorm:"not null" json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ClockifyProject) TableName() string {
	return "clockify_projects"
}

// ProjectGoalMapping associates one cached external project with one
// local goal, scoped to a user. Created lazily: either when a timer is
// started for an unmapped goal, or during sync reconciliation. Mappings
// are deactivated rather than deleted.
type ProjectGoalMapping struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"                     json:"id"`
	UserID    string `gorm:"uniqueIndex:idx_user_goal_project,priority:1;not null" json:"user_id"`
	GoalID    string `gorm:"uniqueIndex:idx_user_goal_project,priority:2;not null" json:"goal_id"`
	ProjectID string `gorm:"uniqueIndex:idx_user_goal_project,priority:3;not null" json:"project_id"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectGoalMapping) TableName() string {
	return "project_goal_mappings"
}
