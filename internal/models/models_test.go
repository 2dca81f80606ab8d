package models

import (
	"testing"
	"time"
)

func TestUserToResponse(t *testing.T) {
	user := &User{
		ID:           7,
		Username:     "alice",
		PasswordHash: "never-exposed",
		Department:   "physics",
	}

	response := user.ToResponse()

	if response.ID != user.ID {
		t.Errorf("ToResponse ID = %d, want %d", response.ID, user.ID)
	}
	if response.Username != user.Username {
		t.Errorf("ToResponse Username = %q, want %q", response.Username, user.Username)
	}
	if response.Department != user.Department {
		t.Errorf("ToResponse Department = %q, want %q", response.Department, user.Department)
	}
	if response.IsOnline {
		t.Errorf("ToResponse IsOnline = true before presence is attached")
	}
}

func TestMessageToResponse(t *testing.T) {
	createdAt := time.Now()
	readAt := createdAt.Add(time.Minute)

	message := &Message{
		ID:         42,
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
		CreatedAt:  createdAt,
		ReadAt:     &readAt,
	}

	response := message.ToResponse()

	if response.ID != 42 || response.SenderID != 1 || response.ReceiverID != 2 {
		t.Errorf("ToResponse identity fields = (%d, %d, %d), want (42, 1, 2)",
			response.ID, response.SenderID, response.ReceiverID)
	}
	if response.Content != "hello" {
		t.Errorf("ToResponse Content = %q, want %q", response.Content, "hello")
	}
	if response.ReadAt == nil || !response.ReadAt.Equal(readAt) {
		t.Errorf("ToResponse ReadAt = %v, want %v", response.ReadAt, readAt)
	}
	if response.Attachment != nil {
		t.Errorf("ToResponse Attachment = %v, want nil", response.Attachment)
	}
}

func TestMessageToResponseWithAttachment(t *testing.T) {
	message := &Message{
		ID:             5,
		SenderID:       1,
		ReceiverID:     2,
		AttachmentPath: "attachments/abc.png",
		AttachmentName: "photo.png",
		AttachmentType: "image/png",
		AttachmentSize: 1234,
	}

	if !message.HasAttachment() {
		t.Fatal("HasAttachment = false, want true")
	}

	response := message.ToResponse()
	if response.Attachment == nil {
		t.Fatal("ToResponse Attachment is nil")
	}
	if response.Attachment.Path != "attachments/abc.png" {
		t.Errorf("Attachment Path = %q, want %q", response.Attachment.Path, "attachments/abc.png")
	}
	if response.Attachment.Size != 1234 {
		t.Errorf("Attachment Size = %d, want 1234", response.Attachment.Size)
	}
}

func TestMessageHasAttachmentEmpty(t *testing.T) {
	message := &Message{ID: 1, SenderID: 1, ReceiverID: 2, Content: "text only"}
	if message.HasAttachment() {
		t.Error("HasAttachment = true for a message without attachment fields")
	}
}
