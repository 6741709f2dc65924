package repositories

import (
	"fmt"
	"sync"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/shared"

	"github.com/google/uuid"
)

// MockProjectRepository is an in-memory implementation of
// ProjectRepository. It holds a reference to the task mock so project
// deletion can cascade the same way the GORM transaction does.
type MockProjectRepository struct {
	projects map[string]models.Project
	tasks    *MockTaskRepository
	mu       sync.RWMutex
}

// NewMockProjectRepository creates a new instance of MockProjectRepository.
func NewMockProjectRepository(tasks *MockTaskRepository) *MockProjectRepository {
	return &MockProjectRepository{
		projects: make(map[string]models.Project),
		tasks:    tasks,
	}
}

// Create adds a new project.
func (r *MockProjectRepository) Create(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.projects[project.ID] = *project
	return nil
}

// GetAllByUser returns all projects for a user.
func (r *MockProjectRepository) GetAllByUser(userID string) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projectList := make([]models.Project, 0)
	for _, p := range r.projects {
		if p.UserID == userID {
			projectList = append(projectList, p)
		}
	}
	return projectList, nil
}

// GetByID returns a project owned by the given user.
func (r *MockProjectRepository) GetByID(id, userID string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok || project.UserID != userID {
		return nil, fmt.Errorf("project with ID %s: %w", id, shared.ErrNotFound)
	}
	return &project, nil
}

// Update modifies an existing project.
func (r *MockProjectRepository) Update(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return fmt.Errorf("project with ID %s: %w", project.ID, shared.ErrNotFound)
	}
	project.UpdatedAt = time.Now().UTC()
	r.projects[project.ID] = *project
	return nil
}

// DeleteWithTasks removes the project's tasks and then the project.
func (r *MockProjectRepository) DeleteWithTasks(id, userID string) error {
	r.mu.Lock()
	project, ok := r.projects[id]
	if !ok || project.UserID != userID {
		r.mu.Unlock()
		return fmt.Errorf("project with ID %s: %w", id, shared.ErrNotFound)
	}
	delete(r.projects, id)
	r.mu.Unlock()

	if r.tasks != nil {
		r.tasks.deleteByProject(id, userID)
	}
	return nil
}
