package cache

import (
	"testing"
	"time"

	"github.com/pairlink/pairlink-backend/internal/models"
)

type memoryKV struct {
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryKV) Set(key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestInboxCacheRoundTrip(t *testing.T) {
	ic := NewInboxCacheStore(newMemoryKV())

	summaries := []models.ConversationSummary{
		{PeerID: 2, PeerUsername: "bob", LastMessageID: 9, LastMessageContent: "hey", UnreadCount: 3},
	}
	if err := ic.SetInbox(1, summaries); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := ic.GetInbox(1)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].PeerID != 2 || got[0].UnreadCount != 3 {
		t.Errorf("round trip = %+v", got)
	}

	if _, ok := ic.GetInbox(7); ok {
		t.Error("unexpected hit for uncached user")
	}
}

func TestInvalidateConversationDropsBothSides(t *testing.T) {
	kv := newMemoryKV()
	ic := NewInboxCacheStore(kv)

	if err := ic.SetInbox(1, nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ic.SetInbox(2, nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ic.SetUnreadCount(2, 1, 4); err != nil {
		t.Fatalf("set unread: %v", err)
	}

	ic.InvalidateConversation(1, 2)

	if _, ok := ic.GetInbox(1); ok {
		t.Error("sender inbox should be invalidated")
	}
	if _, ok := ic.GetInbox(2); ok {
		t.Error("receiver inbox should be invalidated")
	}
	if _, ok := ic.GetUnreadCount(2, 1); ok {
		t.Error("receiver unread count should be invalidated")
	}
}

func TestInboxCacheToleratesMissingStore(t *testing.T) {
	var nilCache *InboxCache
	nilCache.InvalidateConversation(1, 2)
	if _, ok := nilCache.GetInbox(1); ok {
		t.Error("nil cache must miss")
	}

	empty := NewInboxCache(nil)
	if err := empty.SetInbox(1, nil); err != nil {
		t.Errorf("set on storeless cache: %v", err)
	}
	if _, ok := empty.GetInbox(1); ok {
		t.Error("storeless cache must miss")
	}
}
