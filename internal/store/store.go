package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.ClockifyConnection{},
		&models.ClockifyProject{},
		&models.ProjectGoalMapping{},
		&models.TimeEntry{},
		&models.SyncLog{},
		&models.Goal{},
		&models.RecurringEvent{},
		&models.WeeklySnapshot{},
		&models.GoalSnapshot{},
		&models.RecurringEventSnapshot{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Health checks database connectivity.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountActiveConnections returns the number of active connections.
// Used by the metrics gauge updater.
func (s *Store) CountActiveConnections() (int64, error) {
	var count int64
	err := s.db.Model(&models.ClockifyConnection{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CountRunningTimers returns the number of open time entries.
func (s *Store) CountRunningTimers() (int64, error) {
	var count int64
	err := s.db.Model(&models.TimeEntry{}).
		Where("end_time IS NULL").
		Count(&count).Error
	return count, err
}
