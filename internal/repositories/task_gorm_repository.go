package repositories

import (
	"errors"
	"fmt"

	"taskboard/internal/models"
	"taskboard/internal/shared"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create creates a new task in the database.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetAllByUser retrieves the user's tasks, optionally filtered by project.
func (r *GORMTaskRepository) GetAllByUser(userID, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.Where("user_id = ?", userID)
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks for user %s: %w", userID, err)
	}
	return tasks, nil
}

// GetByID retrieves a single task owned by the given user.
func (r *GORMTaskRepository) GetByID(id, userID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %s: %w", id, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task by ID %s: %w", id, err)
	}
	return &task, nil
}

// Update updates an existing task in the database. Callers resolve the
// task through GetByID first, so the ownership filter has already run.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Save(task)
	if res.Error != nil {
		return fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s: %w", task.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete deletes a task owned by the given user.
func (r *GORMTaskRepository) Delete(id, userID string) error {
	res := r.db.Delete(&models.Task{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s: %w", id, shared.ErrNotFound)
	}
	return nil
}
