package repositories

import (
	"fmt"
	"sync"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/shared"

	"github.com/google/uuid"
)

// MockTaskRepository is an in-memory implementation of TaskRepository.
type MockTaskRepository struct {
	tasks map[string]models.Task
	mu    sync.RWMutex
}

// NewMockTaskRepository creates a new instance of MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks: make(map[string]models.Task),
	}
}

// Create adds a new task.
func (r *MockTaskRepository) Create(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.ID] = *task
	return nil
}

// GetAllByUser returns the user's tasks, optionally filtered by project.
func (r *MockTaskRepository) GetAllByUser(userID, projectID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taskList := make([]models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if projectID != "" && (t.ProjectID == nil || *t.ProjectID != projectID) {
			continue
		}
		taskList = append(taskList, t)
	}
	return taskList, nil
}

// GetByID returns a task owned by the given user.
func (r *MockTaskRepository) GetByID(id, userID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, fmt.Errorf("task with ID %s: %w", id, shared.ErrNotFound)
	}
	return &task, nil
}

// Update modifies an existing task.
func (r *MockTaskRepository) Update(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return fmt.Errorf("task with ID %s: %w", task.ID, shared.ErrNotFound)
	}
	task.UpdatedAt = time.Now().UTC()
	r.tasks[task.ID] = *task
	return nil
}

// Delete removes a task owned by the given user.
func (r *MockTaskRepository) Delete(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return fmt.Errorf("task with ID %s: %w", id, shared.ErrNotFound)
	}
	delete(r.tasks, id)
	return nil
}

// deleteByProject removes every task in a project for a user. It backs
// the cascade in MockProjectRepository.
func (r *MockTaskRepository) deleteByProject(projectID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.tasks {
		if t.UserID == userID && t.ProjectID != nil && *t.ProjectID == projectID {
			delete(r.tasks, id)
		}
	}
}
