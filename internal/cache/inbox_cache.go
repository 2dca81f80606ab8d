package cache

import (
	"fmt"
	"time"

	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	InboxTTL       = 2 * time.Minute
	UnreadCountTTL = 1 * time.Minute
)

// KV is the key-value slice of RedisCache the inbox cache needs.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// InboxCache caches the per-user conversation list and unread counts. Every
// accessor tolerates a nil receiver or missing store so callers never branch
// on cache availability.
type InboxCache struct {
	kv KV
}

func NewInboxCache(redis *RedisCache) *InboxCache {
	// A nil *RedisCache must leave kv a true nil interface, otherwise the
	// availability checks below pass on a typed nil.
	if redis == nil {
		return &InboxCache{}
	}
	return &InboxCache{kv: redis}
}

// NewInboxCacheStore builds the cache over any key-value store.
func NewInboxCacheStore(kv KV) *InboxCache {
	return &InboxCache{kv: kv}
}

func inboxKey(userID uint) string {
	return fmt.Sprintf("inbox:%d", userID)
}

func unreadKey(userID, peerID uint) string {
	return fmt.Sprintf("unread:%d:%d", userID, peerID)
}

// GetInbox retrieves a cached conversation list
func (ic *InboxCache) GetInbox(userID uint) ([]models.ConversationSummary, bool) {
	if ic == nil || ic.kv == nil {
		return nil, false
	}
	data, err := ic.kv.Get(inboxKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var summaries []models.ConversationSummary
	if err := msgpack.Unmarshal(data, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

// SetInbox caches a conversation list
func (ic *InboxCache) SetInbox(userID uint, summaries []models.ConversationSummary) error {
	if ic == nil || ic.kv == nil {
		return nil
	}
	data, err := msgpack.Marshal(summaries)
	if err != nil {
		return err
	}
	return ic.kv.Set(inboxKey(userID), data, InboxTTL)
}

// InvalidateInbox removes a user's cached conversation list
func (ic *InboxCache) InvalidateInbox(userID uint) error {
	if ic == nil || ic.kv == nil {
		return nil
	}
	return ic.kv.Delete(inboxKey(userID))
}

// GetUnreadCount retrieves a cached per-conversation unread count
func (ic *InboxCache) GetUnreadCount(userID, peerID uint) (int64, bool) {
	if ic == nil || ic.kv == nil {
		return 0, false
	}
	data, err := ic.kv.Get(unreadKey(userID, peerID))
	if err != nil || data == nil {
		return 0, false
	}

	var count int64
	if err := msgpack.Unmarshal(data, &count); err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadCount caches a per-conversation unread count
func (ic *InboxCache) SetUnreadCount(userID, peerID uint, count int64) error {
	if ic == nil || ic.kv == nil {
		return nil
	}
	data, err := msgpack.Marshal(count)
	if err != nil {
		return err
	}
	return ic.kv.Set(unreadKey(userID, peerID), data, UnreadCountTTL)
}

// InvalidateConversation drops both parties' inbox rows and the receiver's
// unread count after a send, read, edit, or delete.
func (ic *InboxCache) InvalidateConversation(senderID, receiverID uint) {
	if ic == nil || ic.kv == nil {
		return
	}
	_ = ic.kv.Delete(inboxKey(senderID))
	_ = ic.kv.Delete(inboxKey(receiverID))
	_ = ic.kv.Delete(unreadKey(receiverID, senderID))
	_ = ic.kv.Delete(unreadKey(senderID, receiverID))
}
