package ws

import (
	"testing"
	"time"

	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/repository"
	"github.com/pairlink/pairlink-backend/internal/service"
)

// stubMessageRepo serves the event tests a fixed set of messages.
type stubMessageRepo struct {
	messages map[uint]*models.Message
}

func (s *stubMessageRepo) Create(message *models.Message) error {
	s.messages[message.ID] = message
	return nil
}

func (s *stubMessageRepo) FindByID(id uint) (*models.Message, error) {
	if msg, ok := s.messages[id]; ok {
		return msg, nil
	}
	return nil, repository.ErrMessageNotFound
}

func (s *stubMessageRepo) FetchAndMarkRead(userID, otherID uint, limit int) ([]models.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) Edit(messageID uint, newContent string, requesterID uint) (*models.Message, error) {
	msg, ok := s.messages[messageID]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	if msg.SenderID != requesterID {
		return nil, repository.ErrNotMessageSender
	}
	now := time.Now()
	msg.Content = newContent
	msg.EditedAt = &now
	return msg, nil
}

func (s *stubMessageRepo) SoftDelete(messageID uint, requesterID uint) (*models.Message, error) {
	msg, ok := s.messages[messageID]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	if msg.SenderID != requesterID {
		return nil, repository.ErrNotMessageSender
	}
	msg.Deleted = true
	return msg, nil
}

func (s *stubMessageRepo) Search(userID uint, query string, limit int) ([]models.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) ListInboxConversations(userID uint) ([]repository.InboxRow, error) {
	return nil, nil
}

func (s *stubMessageRepo) CountUnread(userID, peerID uint) (int64, error) {
	return 0, nil
}

// Routing assertions lean on the fire-and-forget contract: a connection-less
// room member is written to only if the event reaches its room, and the
// failed write unregisters it.

func TestEditEventRoutesByMessageRecord(t *testing.T) {
	repo := &stubMessageRepo{messages: map[uint]*models.Message{
		1: {ID: 1, SenderID: 1, ReceiverID: 2, Content: "original"},
	}}
	h := NewHub()
	addTestClient(h, 2)
	h.JoinRoom(RoomID(1, 2), 2)

	ctx := &MessageContext{
		UserID:         1,
		Hub:            h,
		MessageService: service.NewMessageService(repo, nil, nil),
	}

	// The claimed peer is wrong; the record still routes to chat-1-2.
	evt := &EventEditMessage{MessageID: 1, Content: "corrected", OtherUserID: 99}
	if err := evt.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	if h.IsConnected(2) {
		t.Error("edit was not broadcast to the message's own room")
	}
	if repo.messages[1].Content != "corrected" {
		t.Errorf("content = %q, want %q", repo.messages[1].Content, "corrected")
	}
}

func TestDeleteEventRoutesByMessageRecord(t *testing.T) {
	repo := &stubMessageRepo{messages: map[uint]*models.Message{
		5: {ID: 5, SenderID: 1, ReceiverID: 2, Content: "bye"},
	}}
	h := NewHub()
	addTestClient(h, 2)
	h.JoinRoom(RoomID(1, 2), 2)

	ctx := &MessageContext{
		UserID:         1,
		Hub:            h,
		MessageService: service.NewMessageService(repo, nil, nil),
	}

	evt := &EventDeleteMessage{MessageID: 5, OtherUserID: 42}
	if err := evt.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	if h.IsConnected(2) {
		t.Error("delete was not broadcast to the message's own room")
	}
	if !repo.messages[5].Deleted {
		t.Error("message should be soft-deleted")
	}
}

func TestEditEventDropsNonSender(t *testing.T) {
	repo := &stubMessageRepo{messages: map[uint]*models.Message{
		1: {ID: 1, SenderID: 1, ReceiverID: 2, Content: "original"},
	}}
	h := NewHub()
	addTestClient(h, 1)
	h.JoinRoom(RoomID(1, 2), 1)

	ctx := &MessageContext{
		UserID:         2,
		Hub:            h,
		MessageService: service.NewMessageService(repo, nil, nil),
	}

	evt := &EventEditMessage{MessageID: 1, Content: "hijack"}
	if err := evt.Process(ctx); err != nil {
		t.Fatalf("process should swallow semantic failures, got %v", err)
	}

	if repo.messages[1].Content != "original" {
		t.Error("non-sender edit must not change the message")
	}
	if !h.IsConnected(1) {
		t.Error("failed edit must not broadcast anything")
	}
}
