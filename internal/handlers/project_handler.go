package handlers

import (
	"errors"
	"log"

	"taskboard/internal/models"
	"taskboard/internal/services"
	"taskboard/internal/shared"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service  *services.ProjectService
	validate *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the project routes. All of them require
// authentication.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router) {
	projectRoutes := router.Group("/projects")
	projectRoutes.Get("/", h.HandleGetProjects)
	projectRoutes.Post("/", h.HandleCreateProject)
	projectRoutes.Get("/:id", h.HandleGetProject)
	projectRoutes.Put("/:id", h.HandleUpdateProject)
	projectRoutes.Delete("/:id", h.HandleDeleteProject)
}

// HandleGetProjects lists the user's projects.
func (h *ProjectHandler) HandleGetProjects(c *fiber.Ctx) error {
	user := currentUser(c)
	projects, err := h.service.GetProjects(user.ID)
	if err != nil {
		log.Printf("Error getting projects for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve projects",
		})
	}
	return c.JSON(projects)
}

// HandleCreateProject creates a new project for the user.
func (h *ProjectHandler) HandleCreateProject(c *fiber.Ctx) error {
	user := currentUser(c)

	var project models.Project
	if err := c.BodyParser(&project); err != nil {
		log.Printf("Error parsing project request body: %v", err)
		return badRequestBody(c, err)
	}
	project.ID = ""
	project.UserID = user.ID
	if err := h.validate.Struct(project); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.CreateProject(user.ID, &project); err != nil {
		log.Printf("Error creating project for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create project",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// HandleGetProject retrieves a project together with its tasks.
func (h *ProjectHandler) HandleGetProject(c *fiber.Ctx) error {
	user := currentUser(c)
	project, err := h.service.GetProjectWithTasks(c.Params("id"), user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return projectNotFound(c)
		}
		log.Printf("Error getting project %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve project",
		})
	}
	return c.JSON(project)
}

// HandleUpdateProject applies a partial update to a project.
func (h *ProjectHandler) HandleUpdateProject(c *fiber.Ctx) error {
	user := currentUser(c)

	var update models.ProjectUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing project update body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(update); err != nil {
		return validationFailed(c, err)
	}

	project, err := h.service.UpdateProject(c.Params("id"), user.ID, &update)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return projectNotFound(c)
		}
		log.Printf("Error updating project %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update project",
		})
	}
	return c.JSON(project)
}

// HandleDeleteProject deletes a project and every task attached to it.
func (h *ProjectHandler) HandleDeleteProject(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.service.DeleteProject(c.Params("id"), user.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return projectNotFound(c)
		}
		log.Printf("Error deleting project %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete project",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Project and all associated tasks deleted successfully",
	})
}

func projectNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Project not found",
	})
}
