package services

import (
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

// ProjectService handles business logic related to projects.
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repositories.ProjectRepository, taskRepo repositories.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProject creates a new project for the user.
func (s *ProjectService) CreateProject(userID string, project *models.Project) error {
	project.UserID = userID
	if project.Color == "" {
		project.Color = models.DefaultProjectColor
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	return s.projectRepo.Create(project)
}

// GetProjects retrieves all projects for the user.
func (s *ProjectService) GetProjects(userID string) ([]models.Project, error) {
	return s.projectRepo.GetAllByUser(userID)
}

// GetProjectWithTasks retrieves a project owned by the user together
// with the tasks attached to it.
func (s *ProjectService) GetProjectWithTasks(id, userID string) (*models.ProjectWithTasks, error) {
	project, err := s.projectRepo.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.GetAllByUser(userID, id)
	if err != nil {
		return nil, err
	}
	return &models.ProjectWithTasks{
		Project: *project,
		Tasks:   tasks,
	}, nil
}

// UpdateProject applies a partial update to a project owned by the user.
func (s *ProjectService) UpdateProject(id, userID string, update *models.ProjectUpdate) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Color != nil {
		project.Color = *update.Color
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project and all tasks attached to it.
func (s *ProjectService) DeleteProject(id, userID string) error {
	return s.projectRepo.DeleteWithTasks(id, userID)
}
