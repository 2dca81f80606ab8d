package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pairlink/pairlink-backend/internal/handlers/ws"
	"github.com/pairlink/pairlink-backend/internal/httpx"
	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/repository"
	"github.com/pairlink/pairlink-backend/internal/service"
	"github.com/pairlink/pairlink-backend/internal/validation"
)

// MessageHandler is the request/response counterpart of the room event
// protocol. Unlike the fire-and-forget event path, every failure here comes
// back with a structured status: 404 for missing messages, 403 for someone
// else's, 410 for already-deleted ones.
type MessageHandler struct {
	messageService *service.MessageService
	inboxService   *service.InboxService
	notifications  *service.NotificationService
	hub            *ws.Hub
}

func NewMessageHandler(messageService *service.MessageService, inboxService *service.InboxService, notifications *service.NotificationService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		inboxService:   inboxService,
		notifications:  notifications,
		hub:            hub,
	}
}

type sendMessageInput struct {
	ReceiverID uint               `json:"receiver_id"`
	Content    string             `json:"content"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input sendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if input.ReceiverID == 0 {
		return httpx.BadRequest(c, "missing_receiver", "receiver_id is required")
	}
	if input.Content == "" && input.Attachment == nil {
		return httpx.BadRequest(c, "missing_content", "Content or attachment is required")
	}

	message, err := h.messageService.SendMessage(userID, input.ReceiverID, input.Content, input.Attachment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfChat):
			return httpx.BadRequest(c, "self_chat", "Cannot message yourself")
		case errors.Is(err, service.ErrMissingParticipant), errors.Is(err, service.ErrEmptyMessage):
			return httpx.BadRequest(c, "invalid_message", err.Error())
		case errors.Is(err, service.ErrInvalidAttachment):
			return httpx.BadRequest(c, "invalid_attachment", "Attachment descriptor is not valid")
		default:
			return httpx.Internal(c, "send_message_failed")
		}
	}

	// Same fanout as the event path: room occupants hear about it live,
	// offline receivers get a push.
	roomID := ws.RoomID(userID, input.ReceiverID)
	h.hub.BroadcastToRoom(roomID, userID, ws.TypeNewMessage, ws.NewMessagePayload{
		Message:    message.ToResponse(),
		SenderName: message.Sender.Username,
	})
	h.notifications.MaybeNotify(input.ReceiverID, message.Sender.Username, message.Content,
		fmt.Sprintf("/chat/%d", userID))

	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

// GetMessages returns the chat history with a peer, oldest-first. Fetching
// history is also the act of reading it: the peer's unread messages to the
// caller are marked read as part of this call.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	peerIDStr := c.Query("peer_id")
	if peerIDStr == "" {
		return httpx.BadRequest(c, "missing_peer", "peer_id is required")
	}
	peerID, err := strconv.ParseUint(peerIDStr, 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_peer", "Invalid peer_id")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	messages, err := h.messageService.GetChatHistory(userID, uint(peerID), limit)
	if err != nil {
		return httpx.Internal(c, "fetch_messages_failed")
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"messages": responses,
		"count":    len(responses),
	})
}

type editMessageInput struct {
	Content string `json:"content"`
}

func (h *MessageHandler) EditMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	messageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_message_id", "Invalid message id")
	}

	var input editMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if input.Content == "" {
		return httpx.BadRequest(c, "missing_content", "Content is required")
	}

	message, err := h.messageService.EditMessage(uint(messageID), input.Content, userID)
	if err != nil {
		return mapMessageError(c, err, "edit_message_failed")
	}

	h.hub.BroadcastToRoom(ws.RoomID(message.SenderID, message.ReceiverID), 0,
		ws.TypeMessageEdited, ws.EditedPayload{Message: message.ToResponse()})

	return c.JSON(message.ToResponse())
}

func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	messageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_message_id", "Invalid message id")
	}

	message, err := h.messageService.DeleteMessage(uint(messageID), userID)
	if err != nil {
		return mapMessageError(c, err, "delete_message_failed")
	}

	h.hub.BroadcastToRoom(ws.RoomID(message.SenderID, message.ReceiverID), 0,
		ws.TypeMessageDeleted, ws.DeletedPayload{MessageID: message.ID})

	return c.JSON(fiber.Map{"deleted": true, "message_id": message.ID})
}

func (h *MessageHandler) SearchMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	query := c.Query("q")
	if !validation.ValidateSearchQuery(query) {
		return httpx.BadRequest(c, "query_too_short", "Query must be at least 2 characters")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	messages, err := h.messageService.SearchMessages(userID, query, limit)
	if err != nil {
		return httpx.Internal(c, "search_messages_failed")
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"messages": responses,
		"count":    len(responses),
	})
}

func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	conversations, err := h.inboxService.ListConversations(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_conversations_failed")
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// mapMessageError translates repository sentinels into HTTP statuses. The
// event path deliberately never surfaces these.
func mapMessageError(c *fiber.Ctx, err error, internalCode string) error {
	switch {
	case errors.Is(err, repository.ErrMessageNotFound):
		return httpx.NotFound(c, "message_not_found", "Message not found")
	case errors.Is(err, repository.ErrNotMessageSender):
		return httpx.Forbidden(c, "not_message_sender", "Only the sender can modify a message")
	case errors.Is(err, repository.ErrMessageDeleted):
		return httpx.Gone(c, "message_deleted", "Message has been deleted")
	default:
		return httpx.Internal(c, internalCode)
	}
}
