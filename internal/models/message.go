package models

import (
	"time"
)

// Message is one unit of communication between exactly two users. Deleted
// messages stay in storage but are excluded from every read path except
// existence checks.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_sender_receiver_created,priority:3" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SenderID   uint `gorm:"not null;index:idx_sender_receiver_created,priority:1" json:"sender_id"`
	Sender     User `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID uint `gorm:"not null;index:idx_sender_receiver_created,priority:2;index" json:"receiver_id"`

	Content string `gorm:"type:text" json:"content"`

	// ReadAt transitions nil -> set exactly once, driven by the receiver
	// opening the conversation. EditedAt is set on every edit.
	ReadAt   *time.Time `json:"read_at"`
	EditedAt *time.Time `json:"edited_at"`
	Deleted  bool       `gorm:"not null;default:false;index" json:"deleted"`

	// Attachment descriptor, immutable once set at creation. Either all
	// four fields are populated or none are.
	AttachmentPath string `json:"attachment_path,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	AttachmentSize int64  `json:"attachment_size,omitempty"`
}

func (m *Message) HasAttachment() bool {
	return m.AttachmentPath != ""
}

// Attachment is the stored-file descriptor returned by the file store and
// carried on send requests.
type Attachment struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type MessageResponse struct {
	ID         uint        `json:"id"`
	SenderID   uint        `json:"sender_id"`
	ReceiverID uint        `json:"receiver_id"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	ReadAt     *time.Time  `json:"read_at"`
	EditedAt   *time.Time  `json:"edited_at"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

func (m *Message) ToResponse() MessageResponse {
	resp := MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		ReadAt:     m.ReadAt,
		EditedAt:   m.EditedAt,
	}
	if m.HasAttachment() {
		resp.Attachment = &Attachment{
			Path: m.AttachmentPath,
			Name: m.AttachmentName,
			Type: m.AttachmentType,
			Size: m.AttachmentSize,
		}
	}
	return resp
}

// ConversationSummary is one inbox row: the latest message exchanged with a
// peer, the unread count within that conversation, and the peer's live
// presence.
type ConversationSummary struct {
	PeerID               uint      `json:"peer_id"`
	PeerUsername         string    `json:"peer_username"`
	LastMessageID        uint      `json:"last_message_id"`
	LastMessageSenderID  uint      `json:"last_message_sender_id"`
	LastMessageContent   string    `json:"last_message_content"`
	LastMessageTimestamp time.Time `json:"last_message_timestamp"`
	UnreadCount          int64     `json:"unread_count"`
	PeerIsOnline         bool      `json:"peer_is_online"`
}
