package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
)

// UpsertProject refreshes the local cache row for one external project.
// Matching is by (connection, external id); the row's local ID is stable
// across refreshes so mappings never dangle.
func (s *Store) UpsertProject(p *models.ClockifyProject) (*models.ClockifyProject, error) {
	var existing models.ClockifyProject
	err := s.db.
		Where("connection_id = ? AND external_id = ?", p.ConnectionID, p.ExternalID).
		First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]any{
			"name":        p.Name,
			"client_name": p.ClientName,
			"color":       p.Color,
			"archived":    p.Archived,
			"fetched_at":  p.FetchedAt,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.Name = p.Name
		existing.ClientName = p.ClientName
		existing.Color = p.Color
		existing.Archived = p.Archived
		existing.FetchedAt = p.FetchedAt
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.FetchedAt.IsZero() {
			p.FetchedAt = time.Now()
		}
		if err := s.db.Create(p).Error; err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, err
	}
}

// GetProjectByExternalID looks up a cached project by its external ID
// within one connection.
func (s *Store) GetProjectByExternalID(connectionID, externalID string) (*models.ClockifyProject, error) {
	var p models.ClockifyProject
	err := s.db.
		Where("connection_id = ? AND external_id = ?", connectionID, externalID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectByLocalID looks up a cached project by its local row ID.
func (s *Store) GetProjectByLocalID(id string) (*models.ClockifyProject, error) {
	var p models.ClockifyProject
	err := s.db.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectByName finds a non-archived cached project by exact name.
func (s *Store) GetProjectByName(connectionID, name string) (*models.ClockifyProject, error) {
	var p models.ClockifyProject
	err := s.db.
		Where("connection_id = ? AND name = ? AND archived = ?", connectionID, name, false).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns the cached projects of a connection.
func (s *Store) ListProjects(connectionID string) ([]models.ClockifyProject, error) {
	var projects []models.ClockifyProject
	err := s.db.
		Where("connection_id = ?", connectionID).
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}

// ProjectMapping pairs a cached project with the goal it maps to,
// keyed for sync reconciliation by the project's external ID.
type ProjectMapping struct {
	ExternalProjectID string
	LocalProjectID    string
	GoalID            string
}

// GetProjectMappings returns the active project-to-goal mappings of a
// user, joined with the project cache so callers can resolve external
// project IDs in one pass.
func (s *Store) GetProjectMappings(userID string) ([]ProjectMapping, error) {
	var rows []ProjectMapping
	err := s.db.
		Table("project_goal_mappings").
		Select("clockify_projects.external_id AS external_project_id, "+
			"project_goal_mappings.project_id AS local_project_id, "+
			"project_goal_mappings.goal_id AS goal_id").
		Joins("JOIN clockify_projects ON clockify_projects.id = project_goal_mappings.project_id").
		Where("project_goal_mappings.user_id = ? AND project_goal_mappings.is_active = ?", userID, true).
		Scan(&rows).Error
	return rows, err
}

// GetMappingForGoal returns the active mapping for a goal, if any.
func (s *Store) GetMappingForGoal(userID, goalID string) (*models.ProjectGoalMapping, error) {
	var m models.ProjectGoalMapping
	err := s.db.
		Where("user_id = ? AND goal_id = ? AND is_active = ?", userID, goalID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMapping records a project-to-goal association. An inactive
// mapping for the same triple is reactivated instead of duplicated.
func (s *Store) CreateMapping(userID, goalID, projectID string) (*models.ProjectGoalMapping, error) {
	var existing models.ProjectGoalMapping
	err := s.db.
		Where("user_id = ? AND goal_id = ? AND project_id = ?", userID, goalID, projectID).
		First(&existing).Error

	switch {
	case err == nil:
		if !existing.IsActive {
			if err := s.db.Model(&existing).Update("is_active", true).Error; err != nil {
				return nil, err
			}
			existing.IsActive = true
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		m := &models.ProjectGoalMapping{
			ID:        uuid.New().String(),
			UserID:    userID,
			GoalID:    goalID,
			ProjectID: projectID,
			IsActive:  true,
		}
		if err := s.db.Create(m).Error; err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, err
	}
}
