// Package push delivers web-push notifications. Delivery is best-effort:
// callers act only on the permanently-invalid outcome (dropping the
// subscription) and otherwise log and move on.
package push

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/pairlink/pairlink-backend/internal/models"
)

// DeliveryResult classifies a single push attempt.
type DeliveryResult int

const (
	Delivered DeliveryResult = iota
	// PermanentlyInvalid means the provider reported the subscription gone
	// (HTTP 404/410); the stored record should be removed.
	PermanentlyInvalid
	TransientFailure
)

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

func LoadVAPIDConfigFromEnv() (VAPIDConfig, error) {
	cfg := VAPIDConfig{
		PublicKey:  strings.TrimSpace(os.Getenv("VAPID_PUBLIC_KEY")),
		PrivateKey: strings.TrimSpace(os.Getenv("VAPID_PRIVATE_KEY")),
		Subject:    strings.TrimSpace(os.Getenv("VAPID_SUBJECT")),
	}
	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return VAPIDConfig{}, errors.New("missing required VAPID env: VAPID_PUBLIC_KEY, VAPID_PRIVATE_KEY")
	}
	if cfg.Subject == "" {
		cfg.Subject = "mailto:admin@localhost"
	}
	return cfg, nil
}

// Sender is the outbound push capability consumed by the notification
// dispatcher.
type Sender interface {
	Dispatch(sub models.PushSubscription, payload []byte) DeliveryResult
}

type WebPushSender struct {
	cfg VAPIDConfig
}

func NewWebPushSender(cfg VAPIDConfig) *WebPushSender {
	return &WebPushSender{cfg: cfg}
}

func (s *WebPushSender) Dispatch(sub models.PushSubscription, payload []byte) DeliveryResult {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
		Subscriber:      s.cfg.Subject,
		TTL:             60,
	})
	if err != nil {
		return TransientFailure
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return PermanentlyInvalid
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Delivered
	default:
		return TransientFailure
	}
}
