package cache

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// Matches the hub's pong timeout so stale mirror entries expire on
	// their own if a process dies without cleaning up.
	OnlineUsersTTL = 90 * time.Second
)

// PresenceCache mirrors the in-process presence tracker into Redis so other
// instances (or ops tooling) can read online state. The in-process tracker
// stays authoritative; every write here is best-effort.
type PresenceCache struct {
	redis *RedisCache
}

func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

func onlineUserKey(userID uint) string {
	return fmt.Sprintf("online:%d", userID)
}

// SetUserOnline adds a user to the online mirror
func (pc *PresenceCache) SetUserOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Set(onlineUserKey(userID), []byte("1"), OnlineUsersTTL)
}

// SetUserOffline removes a user from the online mirror
func (pc *PresenceCache) SetUserOffline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Delete(onlineUserKey(userID))
}

// RefreshUserOnline extends the TTL for an online user
func (pc *PresenceCache) RefreshUserOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.Set(onlineUserKey(userID), []byte("1"), OnlineUsersTTL)
}

// GetOnlineUsers returns all mirrored online user IDs
func (pc *PresenceCache) GetOnlineUsers() ([]uint, error) {
	if pc == nil || pc.redis == nil {
		return nil, nil
	}
	members, err := pc.redis.SetMembers("online:users")
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(members))
	for _, member := range members {
		if id, err := strconv.ParseUint(member, 10, 32); err == nil {
			userIDs = append(userIDs, uint(id))
		}
	}
	return userIDs, nil
}
