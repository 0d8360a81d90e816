package models

import "time"

// WeeklySnapshot is an immutable-by-default point-in-time copy of a
// user's goal/recurring-event configuration and derived statistics for
// one calendar week. ContentHash is a deterministic digest over the
// goals and events used to build the snapshot; it detects staleness
// only and is not a security mechanism. A frozen snapshot must never be
// recalculated.
type WeeklySnapshot struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"                   json:"id"`
	UserID string `gorm:"uniqueIndex:idx_user_week,priority:1;not null" json:"user_id"`

	WeekStart time.Time `gorm:"uniqueIndex:idx_user_week,priority:2;not null" json:"week_start"`
	WeekEnd   time.Time `gorm:"not null"                                      json:"week_end"`

	TotalAvailableHours float64 `gorm:"not null;default:0" json:"total_available_hours"`
	TotalAllocatedHours float64 `gorm:"not null;default:0" json:"total_allocated_hours"`
	TotalCompletedHours float64 `gorm:"not null;default:0" json:"total_completed_hours"`
	// FreeTimeHours = available - allocated. Negative values signal
	// overcommitment and are surfaced as-is, never clamped.
	FreeTimeHours float64 `gorm:"not null;default:0" json:"free_time_hours"`

	IsFrozen    bool   `gorm:"not null;default:false"      json:"is_frozen"`
	ContentHash string `gorm:"type:varchar(64);not null"   json:"content_hash"`

	Goals  []GoalSnapshot           `gorm:"foreignKey:SnapshotID" json:"goals,omitempty"`
	Events []RecurringEventSnapshot `gorm:"foreignKey:SnapshotID" json:"events,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WeeklySnapshot) TableName() string {
	return "weekly_snapshots"
}

// GoalSnapshot is a frozen copy of one goal's numbers for the snapshot
// week. Children are deleted and regenerated wholesale on recalculation.
type GoalSnapshot struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SnapshotID string `gorm:"index;not null"              json:"snapshot_id"`
	GoalID     string `gorm:"type:varchar(36);not null"   json:"goal_id"`

	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	TimeAllocated  float64 `gorm:"not null;default:0"         json:"time_allocated"`
	TimeCompleted  float64 `gorm:"not null;default:0"         json:"time_completed"`
	ScheduledHours float64 `gorm:"not null;default:0"         json:"scheduled_hours"`

	CreatedAt time.Time `json:"created_at"`
}

func (GoalSnapshot) TableName() string {
	return "goal_snapshots"
}

// RecurringEventSnapshot is a frozen copy of one recurring event for the
// snapshot week.
type RecurringEventSnapshot struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SnapshotID string `gorm:"index;not null"              json:"snapshot_id"`
	EventID    string `gorm:"type:varchar(36);not null"   json:"event_id"`

	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	DayOfWeek int     `gorm:"not null"                   json:"day_of_week"`
	StartTime string  `gorm:"type:varchar(5)"            json:"start_time"`
	EndTime   string  `gorm:"type:varchar(5)"            json:"end_time"`
	Hours     float64 `gorm:"not null;default:0"         json:"hours"`

	CreatedAt time.Time `json:"created_at"`
}

func (RecurringEventSnapshot) TableName() string {
	return "recurring_event_snapshots"
}
