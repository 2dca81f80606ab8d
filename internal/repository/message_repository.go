package repository

import (
	"errors"
	"time"

	"github.com/pairlink/pairlink-backend/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FetchAndMarkRead is one logical unit: the read-marking happens before the
// fetch inside a single transaction, so the returned page reflects the
// just-set read state. Older messages outside the window are silently
// excluded; there is no pagination cursor on this path.
func (r *MessageRepository) FetchAndMarkRead(userID, otherID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var messages []models.Message
	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL AND deleted = false", otherID, userID).
			Update("read_at", now).Error; err != nil {
			return err
		}

		return tx.Preload("Sender").
			Where("deleted = false").
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				userID, otherID, otherID, userID).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&messages).Error
	})
	if err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *MessageRepository) Edit(messageID uint, newContent string, requesterID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	if message.Deleted {
		return nil, ErrMessageDeleted
	}
	if message.SenderID != requesterID {
		return nil, ErrNotMessageSender
	}

	now := time.Now()
	if err := r.db.Model(&message).Updates(map[string]interface{}{
		"content":   newContent,
		"edited_at": now,
	}).Error; err != nil {
		return nil, err
	}
	message.Content = newContent
	message.EditedAt = &now
	return &message, nil
}

func (r *MessageRepository) SoftDelete(messageID uint, requesterID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	if message.SenderID != requesterID {
		return nil, ErrNotMessageSender
	}
	// Deleting an already-deleted message is an idempotent success.
	if message.Deleted {
		return &message, nil
	}

	if err := r.db.Model(&message).Update("deleted", true).Error; err != nil {
		return nil, err
	}
	message.Deleted = true
	return &message, nil
}

// Search returns non-deleted messages involving the user whose content
// contains the query as a substring, newest first. Case sensitivity follows
// the database's LIKE semantics.
func (r *MessageRepository) Search(userID uint, query string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("deleted = false").
		Where("(sender_id = ? OR receiver_id = ?)", userID, userID).
		Where("content LIKE ?", "%"+query+"%").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) CountUnread(userID, peerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL AND deleted = false", peerID, userID).
		Count(&count).Error
	return count, err
}
