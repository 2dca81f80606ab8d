package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pairlink/pairlink-backend/internal/httpx"
	"github.com/pairlink/pairlink-backend/internal/service"
)

type PushHandler struct {
	notifications *service.NotificationService
}

func NewPushHandler(notifications *service.NotificationService) *PushHandler {
	return &PushHandler{notifications: notifications}
}

type subscribeInput struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe registers a browser push subscription. Resubscribing with the
// same endpoint refreshes the keys instead of duplicating the row.
func (h *PushHandler) Subscribe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input subscribeInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.Endpoint == "" || input.Keys.P256dh == "" || input.Keys.Auth == "" {
		return httpx.BadRequest(c, "missing_subscription_fields", "endpoint, keys.p256dh and keys.auth are required")
	}

	if err := h.notifications.Subscribe(userID, input.Endpoint, input.Keys.P256dh, input.Keys.Auth); err != nil {
		return httpx.Internal(c, "subscribe_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscribed": true})
}

type unsubscribeInput struct {
	Endpoint string `json:"endpoint"`
}

func (h *PushHandler) Unsubscribe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input unsubscribeInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.Endpoint == "" {
		return httpx.BadRequest(c, "missing_endpoint", "endpoint is required")
	}

	if err := h.notifications.Unsubscribe(userID, input.Endpoint); err != nil {
		return httpx.Internal(c, "unsubscribe_failed")
	}

	return c.JSON(fiber.Map{"unsubscribed": true})
}
