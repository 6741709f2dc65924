package repositories

import "taskboard/internal/models"

// ProjectRepository defines the interface for project data access,
// scoped to a user id like TaskRepository.
type ProjectRepository interface {
	Create(project *models.Project) error
	GetAllByUser(userID string) ([]models.Project, error)
	GetByID(id, userID string) (*models.Project, error)
	Update(project *models.Project) error
	// DeleteWithTasks removes the project and every task referencing
	// it, in one transaction where the store supports it.
	DeleteWithTasks(id, userID string) error
}
