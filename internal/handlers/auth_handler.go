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

// AuthHandler handles HTTP requests for authentication and the
// password-reset flow.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
	authRoutes.Post("/verify-otp", h.HandleVerifyOtp)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
}

// RegisterProtectedRoutes registers the routes that require a valid
// bearer token.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/auth/me", h.HandleMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		if errors.Is(err, shared.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Email already registered",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(tokenResponse(token, user))
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Incorrect email or password",
		})
	}

	return c.JSON(tokenResponse(token, user))
}

// HandleMe returns the public view of the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c).PublicView())
}

// ForgotPasswordRequest represents the request body for the first
// password-reset step.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword stores a reset code for the account and mails
// it out. The code travels only by email; the response carries the
// opaque token for the follow-up steps.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing forgot-password request body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	otpToken, err := h.authService.RequestPasswordReset(req.Email)
	if err != nil {
		log.Printf("Error requesting password reset for %s: %v", req.Email, err)
		if errors.Is(err, shared.ErrEmailNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Email not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not send password reset email",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Password reset code sent",
		"otp_token": otpToken,
	})
}

// VerifyOtpRequest represents the request body for the verify step.
type VerifyOtpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Otp      string `json:"otp" validate:"required,len=6,numeric"`
	OtpToken string `json:"otp_token" validate:"required"`
}

// HandleVerifyOtp confirms a reset code without consuming it.
func (h *AuthHandler) HandleVerifyOtp(c *fiber.Ctx) error {
	var req VerifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing verify-otp request body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.VerifyPasswordReset(req.Email, req.Otp, req.OtpToken); err != nil {
		log.Printf("Error verifying otp for %s: %v", req.Email, err)
		message := "Invalid OTP"
		if errors.Is(err, shared.ErrOtpExpired) {
			message = "OTP expired"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
		})
	}

	return c.JSON(fiber.Map{
		"message":   "OTP verified",
		"otp_token": req.OtpToken,
	})
}

// ResetPasswordRequest represents the request body for the final
// password-reset step.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OtpToken    string `json:"otp_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleResetPassword consumes an OTP token and sets a new password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing reset-password request body: %v", err)
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.ResetPassword(req.Email, req.OtpToken, req.NewPassword); err != nil {
		log.Printf("Error resetting password for %s: %v", req.Email, err)
		if errors.Is(err, shared.ErrInvalidOrExpiredOtpToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid or expired OTP token",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not reset password",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}

func tokenResponse(token string, user *models.User) fiber.Map {
	return fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.PublicView(),
	}
}
