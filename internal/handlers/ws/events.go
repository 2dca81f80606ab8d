package ws

import (
	"fmt"
	"log"

	"github.com/pairlink/pairlink-backend/internal/models"
)

// Client-emitted event type names.
const (
	TypeJoinChat      = "join_chat"
	TypeSendMessage   = "send_message"
	TypeEditMessage   = "edit_message"
	TypeDeleteMessage = "delete_message"
	TypeTyping        = "typing"
	TypeStopTyping    = "stop_typing"
)

// Server-emitted event type names.
const (
	TypeStatusMessage  = "status_message"
	TypeNewMessage     = "new_message"
	TypeMessageEdited  = "message_edited"
	TypeMessageDeleted = "message_deleted"
)

// StatusPayload announces room membership changes.
type StatusPayload struct {
	Msg  string `json:"msg"`
	Kind string `json:"type"`
}

// NewMessagePayload carries a freshly persisted message to room occupants.
type NewMessagePayload struct {
	Message    models.MessageResponse `json:"message"`
	SenderName string                 `json:"sender_name"`
}

// EditedPayload carries the updated content to the full room, the sender's
// other sessions included.
type EditedPayload struct {
	Message models.MessageResponse `json:"message"`
}

// DeletedPayload identifies a removed message. Content is never re-sent.
type DeletedPayload struct {
	MessageID uint `json:"message_id"`
}

// TypingPayload identifies who is typing in a room.
type TypingPayload struct {
	UserID uint `json:"user_id"`
}

// EventJoinChat puts the session into the deterministic room shared with the
// other user and announces the arrival.
type EventJoinChat struct {
	OtherUserID uint `json:"other_user_id"`
}

func (msg *EventJoinChat) GetType() string { return TypeJoinChat }

func (msg *EventJoinChat) Process(ctx *MessageContext) error {
	if msg.OtherUserID == 0 {
		log.Printf("join_chat from user %d dropped: missing other_user_id", ctx.UserID)
		return nil
	}
	if msg.OtherUserID == ctx.UserID {
		log.Printf("join_chat from user %d dropped: self-chat rejected", ctx.UserID)
		return nil
	}

	roomID := RoomID(ctx.UserID, msg.OtherUserID)
	ctx.Hub.JoinRoom(roomID, ctx.UserID)

	user, err := ctx.UserService.GetUserByID(ctx.UserID)
	if err != nil {
		log.Printf("join_chat: failed to load user %d: %v", ctx.UserID, err)
		return nil
	}

	ctx.Hub.BroadcastToRoom(roomID, ctx.UserID, TypeStatusMessage, StatusPayload{
		Msg:  fmt.Sprintf("%s joined the chat.", user.Username),
		Kind: "join",
	})
	return nil
}

// EventSendMessage persists a message and fans it out to the other room
// occupants. The sender's own client updates from its request path, not from
// the broadcast. Validation failures are dropped after a log line; the
// fire-and-forget path has no negative acknowledgment channel.
type EventSendMessage struct {
	OtherUserID uint               `json:"other_user_id"`
	Content     string             `json:"content"`
	Attachment  *models.Attachment `json:"attachment,omitempty"`
}

func (msg *EventSendMessage) GetType() string { return TypeSendMessage }

func (msg *EventSendMessage) Process(ctx *MessageContext) error {
	if msg.OtherUserID == 0 || (msg.Content == "" && msg.Attachment == nil) {
		log.Printf("send_message from user %d dropped: missing recipient or content", ctx.UserID)
		return nil
	}
	if msg.OtherUserID == ctx.UserID {
		log.Printf("send_message from user %d dropped: self-chat rejected", ctx.UserID)
		return nil
	}

	saved, err := ctx.MessageService.SendMessage(ctx.UserID, msg.OtherUserID, msg.Content, msg.Attachment)
	if err != nil {
		log.Printf("send_message from user %d to %d dropped: %v", ctx.UserID, msg.OtherUserID, err)
		return nil
	}

	roomID := RoomID(ctx.UserID, msg.OtherUserID)
	ctx.Hub.BroadcastToRoom(roomID, ctx.UserID, TypeNewMessage, NewMessagePayload{
		Message:    saved.ToResponse(),
		SenderName: saved.Sender.Username,
	})

	ctx.Notifications.MaybeNotify(msg.OtherUserID, saved.Sender.Username, saved.Content,
		fmt.Sprintf("/chat/%d", ctx.UserID))
	return nil
}

// EventEditMessage rewrites a message's content. The edited event goes to the
// full room, sender included, so the sender's other open sessions converge.
type EventEditMessage struct {
	MessageID   uint   `json:"message_id"`
	Content     string `json:"content"`
	OtherUserID uint   `json:"other_user_id"`
}

func (msg *EventEditMessage) GetType() string { return TypeEditMessage }

func (msg *EventEditMessage) Process(ctx *MessageContext) error {
	if msg.MessageID == 0 || msg.Content == "" {
		log.Printf("edit_message from user %d dropped: missing fields", ctx.UserID)
		return nil
	}

	edited, err := ctx.MessageService.EditMessage(msg.MessageID, msg.Content, ctx.UserID)
	if err != nil {
		log.Printf("edit_message %d from user %d dropped: %v", msg.MessageID, ctx.UserID, err)
		return nil
	}

	// Room comes from the record, not the client's claimed peer; a wrong
	// other_user_id cannot misroute the event.
	roomID := RoomID(edited.SenderID, edited.ReceiverID)
	ctx.Hub.BroadcastToRoom(roomID, 0, TypeMessageEdited, EditedPayload{
		Message: edited.ToResponse(),
	})
	return nil
}

// EventDeleteMessage soft-deletes a message and tells the full room by id.
type EventDeleteMessage struct {
	MessageID   uint `json:"message_id"`
	OtherUserID uint `json:"other_user_id"`
}

func (msg *EventDeleteMessage) GetType() string { return TypeDeleteMessage }

func (msg *EventDeleteMessage) Process(ctx *MessageContext) error {
	if msg.MessageID == 0 {
		log.Printf("delete_message from user %d dropped: missing message_id", ctx.UserID)
		return nil
	}

	deleted, err := ctx.MessageService.DeleteMessage(msg.MessageID, ctx.UserID)
	if err != nil {
		log.Printf("delete_message %d from user %d dropped: %v", msg.MessageID, ctx.UserID, err)
		return nil
	}

	roomID := RoomID(deleted.SenderID, deleted.ReceiverID)
	ctx.Hub.BroadcastToRoom(roomID, 0, TypeMessageDeleted, DeletedPayload{
		MessageID: deleted.ID,
	})
	return nil
}

// EventTyping is ephemeral: no persistence, broadcast to the other occupants
// of the caller-supplied room. The client tracks its own room token.
type EventTyping struct {
	Room string `json:"room"`
}

func (msg *EventTyping) GetType() string { return TypeTyping }

func (msg *EventTyping) Process(ctx *MessageContext) error {
	if msg.Room == "" {
		return nil
	}
	ctx.Hub.BroadcastToRoom(msg.Room, ctx.UserID, TypeTyping, TypingPayload{UserID: ctx.UserID})
	return nil
}

// EventStopTyping mirrors EventTyping.
type EventStopTyping struct {
	Room string `json:"room"`
}

func (msg *EventStopTyping) GetType() string { return TypeStopTyping }

func (msg *EventStopTyping) Process(ctx *MessageContext) error {
	if msg.Room == "" {
		return nil
	}
	ctx.Hub.BroadcastToRoom(msg.Room, ctx.UserID, TypeStopTyping, TypingPayload{UserID: ctx.UserID})
	return nil
}
