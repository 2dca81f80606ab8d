package handlers

import (
	"log"
	"os"

	"github.com/gofiber/websocket/v2"
	"github.com/pairlink/pairlink-backend/internal/cache"
	"github.com/pairlink/pairlink-backend/internal/handlers/ws"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/service"
)

type WebSocketHandler struct {
	messageService *service.MessageService
	userService    *service.UserService
	notifications  *service.NotificationService
	presence       *presence.Tracker
	presenceCache  *cache.PresenceCache
	hub            *ws.Hub
}

func NewWebSocketHandler(messageService *service.MessageService, userService *service.UserService, notifications *service.NotificationService, tracker *presence.Tracker, presenceCache *cache.PresenceCache) *WebSocketHandler {
	return &WebSocketHandler{
		messageService: messageService,
		userService:    userService,
		notifications:  notifications,
		presence:       tracker,
		presenceCache:  presenceCache,
		hub:            ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for sending messages from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	client := h.hub.Register(userID, c)
	h.presence.SetOnline(userID)

	// The Redis mirror is best effort only, the in-memory tracker is the
	// authority for presence decisions.
	go func() {
		if h.presenceCache != nil {
			if err := h.presenceCache.SetUserOnline(userID); err != nil {
				log.Printf("Failed to mirror user %d online in cache: %v", userID, err)
			}
		}
	}()

	defer func() {
		h.hub.Unregister(userID)
		h.presence.SetOffline(userID)
		go func() {
			if h.presenceCache != nil {
				if err := h.presenceCache.SetUserOffline(userID); err != nil {
					log.Printf("Failed to mirror user %d offline in cache: %v", userID, err)
				}
			}
		}()
	}()

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.MessageContext{
		UserID:         userID,
		Client:         client,
		Hub:            h.hub,
		MessageService: h.messageService,
		UserService:    h.userService,
		Notifications:  h.notifications,
	}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		// Malformed frames are the only thing the client hears back about.
		// Semantically invalid events are logged and dropped inside Process.
		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(client, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
