package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/push"
)

// MockPushSubscriptionRepository is an in-memory implementation of
// PushSubscriptionRepositoryInterface for testing
type MockPushSubscriptionRepository struct {
	subs   map[uint]*models.PushSubscription
	nextID uint
}

func NewMockPushSubscriptionRepository() *MockPushSubscriptionRepository {
	return &MockPushSubscriptionRepository{
		subs:   make(map[uint]*models.PushSubscription),
		nextID: 1,
	}
}

func (m *MockPushSubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	for _, existing := range m.subs {
		if existing.UserID == sub.UserID && existing.Endpoint == sub.Endpoint {
			existing.P256dh = sub.P256dh
			existing.Auth = sub.Auth
			sub.ID = existing.ID
			return nil
		}
	}
	sub.ID = m.nextID
	m.nextID++
	m.subs[sub.ID] = sub
	return nil
}

func (m *MockPushSubscriptionRepository) FindByUser(userID uint) ([]models.PushSubscription, error) {
	var result []models.PushSubscription
	for _, sub := range m.subs {
		if sub.UserID == userID {
			result = append(result, *sub)
		}
	}
	return result, nil
}

func (m *MockPushSubscriptionRepository) DeleteByEndpoint(userID uint, endpoint string) error {
	for id, sub := range m.subs {
		if sub.UserID == userID && sub.Endpoint == endpoint {
			delete(m.subs, id)
		}
	}
	return nil
}

func (m *MockPushSubscriptionRepository) Delete(id uint) error {
	delete(m.subs, id)
	return nil
}

// MockPushSender records dispatches and answers with a scripted result per
// endpoint.
type MockPushSender struct {
	results   map[string]push.DeliveryResult
	delivered []models.PushSubscription
	payloads  [][]byte
}

func NewMockPushSender() *MockPushSender {
	return &MockPushSender{results: make(map[string]push.DeliveryResult)}
}

func (m *MockPushSender) Dispatch(sub models.PushSubscription, payload []byte) push.DeliveryResult {
	m.delivered = append(m.delivered, sub)
	m.payloads = append(m.payloads, payload)
	if result, ok := m.results[sub.Endpoint]; ok {
		return result
	}
	return push.Delivered
}

func TestMaybeNotifySkipsOnlineReceiver(t *testing.T) {
	subRepo := NewMockPushSubscriptionRepository()
	sender := NewMockPushSender()
	tracker := presence.NewTracker()
	svc := NewNotificationService(subRepo, sender, tracker)

	if err := svc.Subscribe(1, "https://push.example/ep1", "p256dh-key", "auth-key"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	tracker.SetOnline(1)

	svc.MaybeNotify(1, "alice", "hello", "/chat/2")
	if len(sender.delivered) != 0 {
		t.Errorf("online receiver must not be pushed, got %d dispatches", len(sender.delivered))
	}
}

func TestMaybeNotifyOfflineReceiver(t *testing.T) {
	subRepo := NewMockPushSubscriptionRepository()
	sender := NewMockPushSender()
	tracker := presence.NewTracker()
	svc := NewNotificationService(subRepo, sender, tracker)

	if err := svc.Subscribe(1, "https://push.example/ep1", "p256dh-key", "auth-key"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Subscribe(1, "https://push.example/ep2", "p256dh-key", "auth-key"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	svc.MaybeNotify(1, "alice", "hello there", "/chat/2")
	if len(sender.delivered) != 2 {
		t.Fatalf("dispatches = %d, want 2", len(sender.delivered))
	}

	var payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(sender.payloads[0], &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Title != "alice" || payload.Body != "hello there" || payload.URL != "/chat/2" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestMaybeNotifyDropsInvalidSubscription(t *testing.T) {
	subRepo := NewMockPushSubscriptionRepository()
	sender := NewMockPushSender()
	tracker := presence.NewTracker()
	svc := NewNotificationService(subRepo, sender, tracker)

	if err := svc.Subscribe(1, "https://push.example/stale", "p256dh-key", "auth-key"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Subscribe(1, "https://push.example/live", "p256dh-key", "auth-key"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sender.results["https://push.example/stale"] = push.PermanentlyInvalid

	svc.MaybeNotify(1, "alice", "ping", "/chat/2")

	remaining, err := subRepo.FindByUser(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining subs = %d, want 1", len(remaining))
	}
	if remaining[0].Endpoint != "https://push.example/live" {
		t.Errorf("kept endpoint = %q", remaining[0].Endpoint)
	}
}

func TestMaybeNotifyTransientFailureKeepsSubscription(t *testing.T) {
	subRepo := NewMockPushSubscriptionRepository()
	sender := NewMockPushSender()
	tracker := presence.NewTracker()
	svc := NewNotificationService(subRepo, sender, tracker)

	if err := svc.Subscribe(1, "https://push.example/flaky", "p256dh-key", "auth-key"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sender.results["https://push.example/flaky"] = push.TransientFailure

	svc.MaybeNotify(1, "alice", "ping", "/chat/2")

	remaining, err := subRepo.FindByUser(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("transient failure must not drop the subscription")
	}
}

func TestSubscribeRefreshesKeys(t *testing.T) {
	subRepo := NewMockPushSubscriptionRepository()
	svc := NewNotificationService(subRepo, NewMockPushSender(), presence.NewTracker())

	if err := svc.Subscribe(1, "https://push.example/ep", "old-p256dh", "old-auth"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Subscribe(1, "https://push.example/ep", "new-p256dh", "new-auth"); err != nil {
		t.Fatalf("resubscribe: %v", err)
	}

	subs, err := subRepo.FindByUser(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("subs = %d, want 1", len(subs))
	}
	if subs[0].P256dh != "new-p256dh" || subs[0].Auth != "new-auth" {
		t.Errorf("keys not refreshed: %+v", subs[0])
	}
}

func TestUnsubscribe(t *testing.T) {
	subRepo := NewMockPushSubscriptionRepository()
	svc := NewNotificationService(subRepo, NewMockPushSender(), presence.NewTracker())

	if err := svc.Subscribe(1, "https://push.example/ep", "p256dh", "auth"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Unsubscribe(1, "https://push.example/ep"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	subs, err := subRepo.FindByUser(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("subs = %d, want 0", len(subs))
	}
}

func TestTruncatePreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		max     int
		want    string
	}{
		{"short stays intact", "hello", 80, "hello"},
		{"exact length stays intact", strings.Repeat("a", 10), 10, strings.Repeat("a", 10)},
		{"long gets ellipsis", strings.Repeat("a", 12), 10, strings.Repeat("a", 10) + "…"},
		{"multibyte counted in runes", strings.Repeat("é", 12), 10, strings.Repeat("é", 10) + "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncatePreview(tt.content, tt.max); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
