package services_test

import (
	"testing"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestDashboardService_GetStats(t *testing.T) {
	taskRepo := repositories.NewMockTaskRepository()
	projectRepo := repositories.NewMockProjectRepository(taskRepo)
	dashboardService := services.NewDashboardService(taskRepo, projectRepo)

	userID := "user-123"

	// No tasks at all: every count is zero and the rate must not
	// divide by zero.
	stats, err := dashboardService.GetStats(userID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TotalTasks)
	assert.Equal(t, 0, stats.TotalProjects)
	assert.Equal(t, float64(0), stats.CompletionRate)

	assert.NoError(t, projectRepo.Create(&models.Project{Name: "Work", UserID: userID}))

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	seed := []models.Task{
		{Title: "done 1", Status: models.TaskStatusDone, UserID: userID},
		{Title: "done 2", Status: models.TaskStatusDone, UserID: userID},
		{Title: "late", Status: models.TaskStatusTodo, DueDate: &yesterday, UserID: userID},
		{Title: "late but done", Status: models.TaskStatusDone, DueDate: &yesterday, UserID: userID},
		{Title: "running", Status: models.TaskStatusInProgress, DueDate: &tomorrow, UserID: userID},
		{Title: "someone else's", Status: models.TaskStatusTodo, UserID: "user-456"},
	}
	for i := range seed {
		assert.NoError(t, taskRepo.Create(&seed[i]))
	}

	stats, err = dashboardService.GetStats(userID)
	assert.NoError(t, err)
	assert.Equal(t, 5, stats.TotalTasks) // the other user's task is invisible
	assert.Equal(t, 3, stats.CompletedTasks)
	assert.Equal(t, 1, stats.InProgressTasks)
	assert.Equal(t, 1, stats.TodoTasks)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.OverdueTasks) // a done task past its due date is not overdue
	assert.Equal(t, 60.0, stats.CompletionRate)
}

func TestDashboardService_CompletionRateRounding(t *testing.T) {
	taskRepo := repositories.NewMockTaskRepository()
	projectRepo := repositories.NewMockProjectRepository(taskRepo)
	dashboardService := services.NewDashboardService(taskRepo, projectRepo)

	userID := "user-123"
	seed := []models.Task{
		{Title: "a", Status: models.TaskStatusDone, UserID: userID},
		{Title: "b", Status: models.TaskStatusDone, UserID: userID},
		{Title: "c", Status: models.TaskStatusTodo, UserID: userID},
	}
	for i := range seed {
		assert.NoError(t, taskRepo.Create(&seed[i]))
	}

	stats, err := dashboardService.GetStats(userID)
	assert.NoError(t, err)
	// 2/3 = 66.666...%, rounded to one decimal
	assert.Equal(t, 66.7, stats.CompletionRate)
}
