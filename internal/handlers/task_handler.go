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

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service  *services.TaskService
	validate *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the task routes. All of them require
// authentication.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.Get("/", h.HandleGetTasks)
	taskRoutes.Post("/", h.HandleCreateTask)
	taskRoutes.Get("/:id", h.HandleGetTask)
	taskRoutes.Put("/:id", h.HandleUpdateTask)
	taskRoutes.Delete("/:id", h.HandleDeleteTask)
}

// HandleGetTasks lists the user's tasks, optionally filtered by the
// project_id query parameter.
func (h *TaskHandler) HandleGetTasks(c *fiber.Ctx) error {
	user := currentUser(c)
	tasks, err := h.service.GetTasks(user.ID, c.Query("project_id"))
	if err != nil {
		log.Printf("Error getting tasks for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve tasks",
		})
	}
	return c.JSON(tasks)
}

// HandleCreateTask creates a new task for the user.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	user := currentUser(c)

	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		log.Printf("Error parsing task request body: %v", err)
		return badRequestBody(c, err)
	}
	// Ownership and timestamps are assigned by the service; ignore
	// whatever the client sent for them.
	task.ID = ""
	task.UserID = user.ID
	if err := h.validate.Struct(task); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.CreateTask(user.ID, &task); err != nil {
		log.Printf("Error creating task for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create task",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleGetTask retrieves a single task. A task owned by another user
// is indistinguishable from a missing one.
func (h *TaskHandler) HandleGetTask(c *fiber.Ctx) error {
	user := currentUser(c)
	task, err := h.service.GetTask(c.Params("id"), user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return taskNotFound(c)
		}
		log.Printf("Error getting task %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve task",
		})
	}
	return c.JSON(task)
}

// HandleUpdateTask applies a partial update to a task.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	user := currentUser(c)

	var update models.TaskUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing task update body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(update); err != nil {
		return validationFailed(c, err)
	}

	task, err := h.service.UpdateTask(c.Params("id"), user.ID, &update)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return taskNotFound(c)
		}
		log.Printf("Error updating task %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update task",
		})
	}
	return c.JSON(task)
}

// HandleDeleteTask deletes a task.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.service.DeleteTask(c.Params("id"), user.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return taskNotFound(c)
		}
		log.Printf("Error deleting task %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete task",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}

func taskNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Task not found",
	})
}
