package services

import (
	"math"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

// DashboardStats aggregates the user's current tasks and projects.
type DashboardStats struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	TodoTasks       int     `json:"todo_tasks"`
	TotalProjects   int     `json:"total_projects"`
	OverdueTasks    int     `json:"overdue_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

// DashboardService computes read-side aggregates over the CRUD layer.
type DashboardService struct {
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(taskRepo repositories.TaskRepository, projectRepo repositories.ProjectRepository) *DashboardService {
	return &DashboardService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// GetStats returns the dashboard aggregates for a user. A task is
// overdue when it is not done and its due date has passed. The
// completion rate is a percentage rounded to one decimal, 0 when the
// user has no tasks.
func (s *DashboardService) GetStats(userID string) (*DashboardStats, error) {
	tasks, err := s.taskRepo.GetAllByUser(userID, "")
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalTasks:    len(tasks),
		TotalProjects: len(projects),
	}
	now := time.Now().UTC()
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusDone:
			stats.CompletedTasks++
		case models.TaskStatusInProgress:
			stats.InProgressTasks++
		case models.TaskStatusTodo:
			stats.TodoTasks++
		}
		if t.Status != models.TaskStatusDone && t.DueDate != nil && t.DueDate.UTC().Before(now) {
			stats.OverdueTasks++
		}
	}
	if stats.TotalTasks > 0 {
		rate := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}
	return stats, nil
}
