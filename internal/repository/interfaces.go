package repository

import (
	"github.com/pairlink/pairlink-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	SearchUsers(requestingUserID uint, query string, limit int) ([]models.User, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	// FetchAndMarkRead marks every unread non-deleted message from otherID
	// to userID as read, then returns the newest `limit` non-deleted
	// messages between the pair in chronological order.
	FetchAndMarkRead(userID, otherID uint, limit int) ([]models.Message, error)
	// Edit updates content and the edited marker. Fails with
	// ErrMessageNotFound, ErrNotMessageSender, or ErrMessageDeleted.
	Edit(messageID uint, newContent string, requesterID uint) (*models.Message, error)
	// SoftDelete marks a message deleted. Idempotent on already-deleted
	// messages; fails with ErrMessageNotFound or ErrNotMessageSender.
	// Returns the record so the caller can clean up any attachment.
	SoftDelete(messageID uint, requesterID uint) (*models.Message, error)
	Search(userID uint, query string, limit int) ([]models.Message, error)
	ListInboxConversations(userID uint) ([]InboxRow, error)
	CountUnread(userID, peerID uint) (int64, error)
}

// PushSubscriptionRepositoryInterface defines the contract for push
// subscription storage.
type PushSubscriptionRepositoryInterface interface {
	Upsert(sub *models.PushSubscription) error
	FindByUser(userID uint) ([]models.PushSubscription, error)
	DeleteByEndpoint(userID uint, endpoint string) error
	Delete(id uint) error
}
