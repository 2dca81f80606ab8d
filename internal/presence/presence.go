// Package presence tracks which users currently hold an active real-time
// connection. State is in-process only and lost on restart; presence is
// inherently ephemeral and driven solely by explicit connect/disconnect
// signals, never by heartbeat expiry.
package presence

import (
	"sync"
)

// Tracker is a concurrency-safe set of online user IDs. Construct one at
// process start and pass it to every consumer.
type Tracker struct {
	mu     sync.RWMutex
	online map[uint]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{online: make(map[uint]struct{})}
}

// SetOnline marks a user online. Idempotent.
func (t *Tracker) SetOnline(userID uint) {
	t.mu.Lock()
	t.online[userID] = struct{}{}
	t.mu.Unlock()
}

// SetOffline marks a user offline. No-op if the user is not online.
func (t *Tracker) SetOffline(userID uint) {
	t.mu.Lock()
	delete(t.online, userID)
	t.mu.Unlock()
}

func (t *Tracker) IsOnline(userID uint) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.online[userID]
	return ok
}

// OnlineUsers returns a snapshot of all online user IDs.
func (t *Tracker) OnlineUsers() []uint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	users := make([]uint, 0, len(t.online))
	for id := range t.online {
		users = append(users, id)
	}
	return users
}

// Count returns the number of online users.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.online)
}
