package repository

import (
	"strings"
	"time"
)

// InboxRow is a denormalized row representing one direct-message conversation
// (1 row per peer): the latest message plus the unread count scoped to that
// conversation, with the peer's username joined in.
//
// NOTE: deliberately not the full models.User / models.Message shape to avoid
// leaking sensitive fields and to keep the query a single scan.
type InboxRow struct {
	PeerID       uint   `gorm:"column:peer_id"`
	PeerUsername string `gorm:"column:peer_username"`

	LastMessageID        uint      `gorm:"column:last_message_id"`
	LastMessageSenderID  uint      `gorm:"column:last_message_sender_id"`
	LastMessageContent   string    `gorm:"column:last_message_content"`
	LastMessageTimestamp time.Time `gorm:"column:last_message_timestamp"`

	UnreadCount int64 `gorm:"column:unread_count"`
}

// ListInboxConversations aggregates the user's inbox in a single query:
// window functions pick the latest message per peer (message id as the
// recency proxy) and compute the per-conversation unread count, excluding
// deleted messages. Ordered by latest-message timestamp descending with
// message id as the tie-break.
func (r *MessageRepository) ListInboxConversations(userID uint) ([]InboxRow, error) {
	query := strings.TrimSpace(`
WITH ranked AS (
	SELECT
		CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END AS peer_id,
		m.id AS last_message_id,
		m.sender_id AS last_message_sender_id,
		m.content AS last_message_content,
		m.created_at AS last_message_timestamp,
		ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END
			ORDER BY m.id DESC
		) AS rn,
		SUM(CASE WHEN m.receiver_id = ? AND m.read_at IS NULL THEN 1 ELSE 0 END) OVER (
			PARTITION BY CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END
		) AS unread_count
	FROM messages m
	WHERE
		m.deleted = false
		AND (m.sender_id = ? OR m.receiver_id = ?)
)
SELECT
	t.peer_id,
	peer.username AS peer_username,
	t.last_message_id,
	t.last_message_sender_id,
	t.last_message_content,
	t.last_message_timestamp,
	t.unread_count
FROM ranked t
JOIN users peer ON peer.id = t.peer_id
WHERE t.rn = 1
ORDER BY t.last_message_timestamp DESC, t.last_message_id DESC
`)

	var rows []InboxRow
	err := r.db.Raw(query, userID, userID, userID, userID, userID, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
