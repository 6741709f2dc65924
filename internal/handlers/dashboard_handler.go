package handlers

import (
	"log"

	"taskboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles HTTP requests for dashboard aggregates.
type DashboardHandler struct {
	service *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// RegisterRoutes registers the dashboard routes. They require
// authentication.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard/stats", h.HandleGetStats)
}

// HandleGetStats returns the aggregate counts for the user.
func (h *DashboardHandler) HandleGetStats(c *fiber.Ctx) error {
	user := currentUser(c)
	stats, err := h.service.GetStats(user.ID)
	if err != nil {
		log.Printf("Error computing dashboard stats for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute dashboard stats",
		})
	}
	return c.JSON(stats)
}
