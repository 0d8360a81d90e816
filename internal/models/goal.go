package models

import "time"

// Goal is a user goal with a weekly time allocation. Goals are what
// external projects get mapped onto and what weekly snapshots capture.
type Goal struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"index;not null"              json:"user_id"`

	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Color string `gorm:"type:varchar(16)"           json:"color"`

	// Hours per week
	TimeAllocated float64 `gorm:"not null;default:0" json:"time_allocated"`
	TimeCompleted float64 `gorm:"not null;default:0" json:"time_completed"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}

// RecurringEvent is a weekly calendar commitment (e.g. a standing
// meeting). Its hours count against the week's available time.
type RecurringEvent struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"index;not null"              json:"user_id"`

	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	DayOfWeek int    `gorm:"not null"                   json:"day_of_week"` // 0 = Monday
	StartTime string `gorm:"type:varchar(5)"            json:"start_time"`  // "HH:MM"
	EndTime   string `gorm:"type:varchar(5)"            json:"end_time"`

	Hours float64 `gorm:"not null;default:0" json:"hours"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RecurringEvent) TableName() string {
	return "recurring_events"
}
