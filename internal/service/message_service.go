package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/pairlink/pairlink-backend/internal/cache"
	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/repository"
)

var (
	// ErrMissingParticipant is a validation failure: a send without both
	// parties identified.
	ErrMissingParticipant = errors.New("sender and receiver are required")
	// ErrEmptyMessage is a validation failure: no content and no
	// attachment.
	ErrEmptyMessage = errors.New("message needs content or an attachment")
	// ErrSelfChat rejects a conversation of a user with themselves.
	ErrSelfChat = errors.New("cannot message yourself")
	// ErrInvalidAttachment rejects a descriptor whose path is not a key the
	// file store issues. Clients send descriptors verbatim; an unchecked
	// path would later be handed to object-storage delete.
	ErrInvalidAttachment = errors.New("invalid attachment descriptor")
)

// attachmentKeyPrefix is where the file store writes uploads.
const attachmentKeyPrefix = "attachments/"

// AttachmentRemover is the slice of the file store the message service needs
// for delete-time cleanup.
type AttachmentRemover interface {
	Remove(ctx context.Context, path string) error
}

type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
	files       AttachmentRemover
	inboxCache  *cache.InboxCache
}

func NewMessageService(messageRepo repository.MessageRepositoryInterface, files AttachmentRemover, inboxCache *cache.InboxCache) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		files:       files,
		inboxCache:  inboxCache,
	}
}

// SendMessage persists a new message. Content may be empty only when an
// attachment is present; timestamps and the id are assigned by the store.
func (s *MessageService) SendMessage(senderID, receiverID uint, content string, attachment *models.Attachment) (*models.Message, error) {
	if senderID == 0 || receiverID == 0 {
		return nil, ErrMissingParticipant
	}
	if senderID == receiverID {
		return nil, ErrSelfChat
	}
	if content == "" && attachment == nil {
		return nil, ErrEmptyMessage
	}
	if attachment != nil && !validAttachment(attachment) {
		return nil, ErrInvalidAttachment
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if attachment != nil {
		message.AttachmentPath = attachment.Path
		message.AttachmentName = attachment.Name
		message.AttachmentType = attachment.Type
		message.AttachmentSize = attachment.Size
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	s.inboxCache.InvalidateConversation(senderID, receiverID)

	// Reload with sender profile for fanout payloads.
	return s.messageRepo.FindByID(message.ID)
}

func validAttachment(a *models.Attachment) bool {
	if !strings.HasPrefix(a.Path, attachmentKeyPrefix) {
		return false
	}
	if strings.Contains(a.Path, "..") {
		return false
	}
	return len(a.Path) > len(attachmentKeyPrefix)
}

// GetChatHistory returns the conversation between userID and otherID,
// oldest-first, marking the other party's unread messages as read as part of
// the same operation.
func (s *MessageService) GetChatHistory(userID, otherID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	messages, err := s.messageRepo.FetchAndMarkRead(userID, otherID, limit)
	if err != nil {
		return nil, err
	}
	// The read-marking changed the other party's unread view of this
	// conversation.
	s.inboxCache.InvalidateConversation(otherID, userID)
	return messages, nil
}

// EditMessage updates content for the original sender. Repository sentinel
// errors pass through for the caller to map.
func (s *MessageService) EditMessage(messageID uint, newContent string, requesterID uint) (*models.Message, error) {
	message, err := s.messageRepo.Edit(messageID, newContent, requesterID)
	if err != nil {
		return nil, err
	}
	s.inboxCache.InvalidateConversation(message.SenderID, message.ReceiverID)
	return message, nil
}

// DeleteMessage soft-deletes a sender's message and removes any stored
// attachment as a best-effort side effect.
func (s *MessageService) DeleteMessage(messageID uint, requesterID uint) (*models.Message, error) {
	message, err := s.messageRepo.SoftDelete(messageID, requesterID)
	if err != nil {
		return nil, err
	}

	if message.HasAttachment() && s.files != nil {
		if err := s.files.Remove(context.Background(), message.AttachmentPath); err != nil {
			log.Printf("Failed to remove attachment %s for message %d: %v", message.AttachmentPath, message.ID, err)
		}
	}

	s.inboxCache.InvalidateConversation(message.SenderID, message.ReceiverID)
	return message, nil
}

// SearchMessages returns the user's non-deleted messages containing the
// query substring, newest first. Minimum query length is enforced at the
// handler boundary.
func (s *MessageService) SearchMessages(userID uint, query string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.Search(userID, query, limit)
}
