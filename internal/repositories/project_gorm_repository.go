package repositories

import (
	"errors"
	"fmt"

	"taskboard/internal/models"
	"taskboard/internal/shared"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProjectRepository is a GORM implementation of ProjectRepository.
type GORMProjectRepository struct {
	db *gorm.DB
}

// NewGORMProjectRepository creates a new instance of GORMProjectRepository.
func NewGORMProjectRepository(db *gorm.DB) *GORMProjectRepository {
	return &GORMProjectRepository{
		db: db,
	}
}

// Create creates a new project in the database.
func (r *GORMProjectRepository) Create(project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetAllByUser retrieves all projects for a user.
func (r *GORMProjectRepository) GetAllByUser(userID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Find(&projects, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get projects for user %s: %w", userID, err)
	}
	return projects, nil
}

// GetByID retrieves a single project owned by the given user.
func (r *GORMProjectRepository) GetByID(id, userID string) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project with ID %s: %w", id, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project by ID %s: %w", id, err)
	}
	return &project, nil
}

// Update updates an existing project in the database.
func (r *GORMProjectRepository) Update(project *models.Project) error {
	res := r.db.Save(project)
	if res.Error != nil {
		return fmt.Errorf("failed to update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project with ID %s: %w", project.ID, shared.ErrNotFound)
	}
	return nil
}

// DeleteWithTasks removes the project's tasks and then the project
// inside one transaction, so a crash between the two steps cannot
// leave orphaned tasks.
func (r *GORMProjectRepository) DeleteWithTasks(id, userID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Task{}, "project_id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fmt.Errorf("failed to delete project tasks: %w", err)
		}
		res := tx.Delete(&models.Project{}, "id = ? AND user_id = ?", id, userID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("project with ID %s: %w", id, shared.ErrNotFound)
		}
		return nil
	})
	return err
}
