package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pairlink/pairlink-backend/internal/httpx"
	"github.com/pairlink/pairlink-backend/internal/service"
	"github.com/pairlink/pairlink-backend/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Username = validation.NormalizeUsername(input.Username)
	if !validation.ValidateUsername(input.Username) {
		return httpx.BadRequest(c, "invalid_username", "Username must be 3-32 characters (letters, digits, underscore)")
	}
	if !validation.ValidatePassword(input.Password) {
		return httpx.BadRequest(c, "invalid_password", "Password is too short")
	}
	input.Department = validation.TrimAndLimit(input.Department, 100)

	result, err := h.authService.Register(input)
	if err != nil {
		return httpx.BadRequest(c, "register_failed", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if input.Username == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_credentials", "Username and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", err.Error())
	}

	return c.JSON(result)
}
