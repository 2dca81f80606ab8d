package models

import (
	"time"
)

// PushSubscription is one browser push endpoint for a user. A user may hold
// several (multi-device). Rows are removed when the provider reports the
// subscription permanently invalid.
type PushSubscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `gorm:"not null;index;uniqueIndex:idx_user_endpoint" json:"user_id"`
	Endpoint string `gorm:"not null;uniqueIndex:idx_user_endpoint" json:"endpoint"`
	P256dh   string `gorm:"not null" json:"p256dh"`
	Auth     string `gorm:"not null" json:"auth"`
}
