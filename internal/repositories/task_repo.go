package repositories

import "taskboard/internal/models"

// TaskRepository defines the interface for task data access. Every
// lookup is scoped to a user id; a task owned by someone else is
// reported as absent.
type TaskRepository interface {
	Create(task *models.Task) error
	// GetAllByUser returns the user's tasks, optionally filtered by
	// project. An empty projectID returns tasks across all projects.
	GetAllByUser(userID, projectID string) ([]models.Task, error)
	GetByID(id, userID string) (*models.Task, error)
	Update(task *models.Task) error
	Delete(id, userID string) error
}
