package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pairlink/pairlink-backend/internal/httpx"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/service"
	"github.com/pairlink/pairlink-backend/internal/validation"
)

type UserHandler struct {
	userService *service.UserService
	presence    *presence.Tracker
}

func NewUserHandler(userService *service.UserService, tracker *presence.Tracker) *UserHandler {
	return &UserHandler{userService: userService, presence: tracker}
}

// GetCurrentUser gets the authenticated user's profile
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}

	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

// GetUserStatus reports whether a user currently has an active real-time
// connection. No auth required.
func (h *UserHandler) GetUserStatus(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user id")
	}

	return c.JSON(fiber.Map{
		"online": h.presence.IsOnline(uint(userID)),
	})
}

// SearchUsers finds chat partners by username or department
func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	query := c.Query("q")
	if !validation.ValidateSearchQuery(query) {
		return httpx.BadRequest(c, "query_too_short", "Query must be at least 2 characters")
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}

	users, err := h.userService.SearchUsers(userID, query, limit)
	if err != nil {
		return httpx.Internal(c, "search_users_failed")
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}
