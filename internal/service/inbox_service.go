package service

import (
	"github.com/pairlink/pairlink-backend/internal/cache"
	"github.com/pairlink/pairlink-backend/internal/models"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/repository"
)

// InboxService composes the message store's inbox aggregation with live
// presence for the listing surface.
type InboxService struct {
	messageRepo repository.MessageRepositoryInterface
	presence    *presence.Tracker
	inboxCache  *cache.InboxCache
}

func NewInboxService(messageRepo repository.MessageRepositoryInterface, tracker *presence.Tracker, inboxCache *cache.InboxCache) *InboxService {
	return &InboxService{
		messageRepo: messageRepo,
		presence:    tracker,
		inboxCache:  inboxCache,
	}
}

// ListConversations returns one summary per peer the user has exchanged
// non-deleted messages with, ordered by latest-message recency. Presence is
// attached after the cache so it is always live, never stale.
func (s *InboxService) ListConversations(userID uint) ([]models.ConversationSummary, error) {
	if cached, ok := s.inboxCache.GetInbox(userID); ok {
		for i := range cached {
			cached[i].PeerIsOnline = s.presence.IsOnline(cached[i].PeerID)
		}
		return cached, nil
	}

	rows, err := s.messageRepo.ListInboxConversations(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, models.ConversationSummary{
			PeerID:               row.PeerID,
			PeerUsername:         row.PeerUsername,
			LastMessageID:        row.LastMessageID,
			LastMessageSenderID:  row.LastMessageSenderID,
			LastMessageContent:   row.LastMessageContent,
			LastMessageTimestamp: row.LastMessageTimestamp,
			UnreadCount:          row.UnreadCount,
		})
	}

	// Cache the presence-free rows, then attach live presence.
	_ = s.inboxCache.SetInbox(userID, summaries)
	for i := range summaries {
		summaries[i].PeerIsOnline = s.presence.IsOnline(summaries[i].PeerID)
	}
	return summaries, nil
}

// UnreadCount returns the unread count for one conversation, cache-first.
func (s *InboxService) UnreadCount(userID, peerID uint) (int64, error) {
	if count, ok := s.inboxCache.GetUnreadCount(userID, peerID); ok {
		return count, nil
	}
	count, err := s.messageRepo.CountUnread(userID, peerID)
	if err != nil {
		return 0, err
	}
	_ = s.inboxCache.SetUnreadCount(userID, peerID, count)
	return count, nil
}
