package middleware

import (
	"log"
	"strings"

	"taskboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that authenticates the bearer
// token and resolves the user it identifies. Every failure mode —
// missing header, malformed token, bad signature, expired token,
// missing subject, vanished user — gets the same 401 response so the
// caller learns nothing about which check failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c)
		}

		user, err := authService.ResolveUser(parts[1])
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return unauthorized(c)
		}

		// The resolved user is the ownership anchor for every
		// operation in this request.
		c.Locals("user", user)
		c.Locals("user_id", user.ID)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Could not validate credentials",
	})
}
