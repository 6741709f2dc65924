package services

import (
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

// TaskService handles business logic related to tasks. Every operation
// is scoped to the owning user.
type TaskService struct {
	repo repositories.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo repositories.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// CreateTask creates a new task for the user, applying defaults for
// omitted priority and status.
func (s *TaskService) CreateTask(userID string, task *models.Task) error {
	task.UserID = userID
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	return s.repo.Create(task)
}

// GetTasks retrieves the user's tasks, optionally filtered by project.
// An empty projectID returns all tasks across all projects.
func (s *TaskService) GetTasks(userID, projectID string) ([]models.Task, error) {
	return s.repo.GetAllByUser(userID, projectID)
}

// GetTask retrieves a single task owned by the user.
func (s *TaskService) GetTask(id, userID string) (*models.Task, error) {
	return s.repo.GetByID(id, userID)
}

// UpdateTask applies a partial update to a task owned by the user and
// returns the updated task. Nil fields are left untouched.
func (s *TaskService) UpdateTask(id, userID string, update *models.TaskUpdate) (*models.Task, error) {
	task, err := s.repo.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.ProjectID != nil {
		task.ProjectID = update.ProjectID
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask deletes a task owned by the user.
func (s *TaskService) DeleteTask(id, userID string) error {
	return s.repo.Delete(id, userID)
}
