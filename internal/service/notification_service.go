package service

import (
	"encoding/json"
	"log"

	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/push"
	"github.com/pairlink/pairlink-backend/internal/repository"
)

// previewLimit bounds the message preview carried in a push payload.
const previewLimit = 80

// NotificationService decides, at send time, whether the recipient needs a
// push notification (recipient offline) and fans the payload out to every
// stored subscription. Delivery is best-effort; the only hard consequence of
// a failure is dropping permanently-invalid subscriptions.
type NotificationService struct {
	subRepo  repository.PushSubscriptionRepositoryInterface
	sender   push.Sender
	presence *presence.Tracker
}

func NewNotificationService(subRepo repository.PushSubscriptionRepositoryInterface, sender push.Sender, tracker *presence.Tracker) *NotificationService {
	return &NotificationService{
		subRepo:  subRepo,
		sender:   sender,
		presence: tracker,
	}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// MaybeNotify pushes to the receiver's subscriptions if they are offline at
// this moment. The receiver may connect a moment later and miss it; push is
// inherently best-effort and that race is accepted.
func (s *NotificationService) MaybeNotify(receiverID uint, senderName, content, link string) {
	if s == nil || s.sender == nil {
		return
	}
	if s.presence.IsOnline(receiverID) {
		return
	}

	subs, err := s.subRepo.FindByUser(receiverID)
	if err != nil {
		log.Printf("Failed to load push subscriptions for user %d: %v", receiverID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Title: senderName,
		Body:  TruncatePreview(content, previewLimit),
		URL:   link,
	})
	if err != nil {
		log.Printf("Failed to marshal push payload for user %d: %v", receiverID, err)
		return
	}

	for _, sub := range subs {
		switch s.sender.Dispatch(sub, payload) {
		case push.Delivered:
		case push.PermanentlyInvalid:
			log.Printf("Removing invalid push subscription %d for user %d", sub.ID, receiverID)
			if err := s.subRepo.Delete(sub.ID); err != nil {
				log.Printf("Failed to remove push subscription %d: %v", sub.ID, err)
			}
		case push.TransientFailure:
			log.Printf("Push delivery failed for subscription %d (user %d)", sub.ID, receiverID)
		}
	}
}

// Subscribe stores or refreshes a push subscription for a user.
func (s *NotificationService) Subscribe(userID uint, endpoint, p256dh, auth string) error {
	return s.subRepo.Upsert(&models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	})
}

// Unsubscribe removes a user's subscription for an endpoint.
func (s *NotificationService) Unsubscribe(userID uint, endpoint string) error {
	return s.subRepo.DeleteByEndpoint(userID, endpoint)
}

// TruncatePreview bounds a content preview to max runes, appending an
// ellipsis when truncated.
func TruncatePreview(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
