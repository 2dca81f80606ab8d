package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with metadata. All writes to
// the connection go through Send/SendJSON/Ping: the broadcast path, the ping
// routine, and the session's own read loop run on different goroutines, and
// the underlying connection permits only one concurrent writer.
type ClientConnection struct {
	Conn       *websocket.Conn
	UserID     uint
	LastPong   time.Time
	PingTicker *time.Ticker
	CloseChan  chan struct{}

	writeMu sync.Mutex
}

// Send writes a text frame under the connection's write lock.
func (c *ClientConnection) Send(data []byte) error {
	if c.Conn == nil {
		return errors.New("no connection")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// SendJSON writes a JSON text frame under the connection's write lock.
func (c *ClientConnection) SendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(data)
}

// Ping writes a protocol-level ping under the connection's write lock.
func (c *ClientConnection) Ping(deadline time.Time) error {
	if c.Conn == nil {
		return errors.New("no connection")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteControl(websocket.PingMessage, []byte{}, deadline)
}

// Hub manages all active WebSocket connections and their room memberships.
// Room fanout is fire-and-forget: a failed write drops the event and
// unregisters the dead connection; nothing is queued.
type Hub struct {
	clients map[uint]*ClientConnection
	// rooms maps a room token to the set of member user IDs.
	rooms map[string]map[uint]struct{}
	mux   sync.RWMutex

	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[uint]*ClientConnection),
		rooms:        make(map[string]map[uint]struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring and returns the
// wrapper that serializes writes to it.
func (h *Hub) Register(userID uint, conn *websocket.Conn) *ClientConnection {
	clientConn := &ClientConnection{
		Conn:       conn,
		UserID:     userID,
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(h.pingInterval),
		CloseChan:  make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.mux.Lock()
		if client, exists := h.clients[userID]; exists {
			client.LastPong = time.Now()
		}
		h.mux.Unlock()
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.addClient(clientConn)
	go h.pingRoutine(clientConn)
	return clientConn
}

func (h *Hub) addClient(client *ClientConnection) {
	h.mux.Lock()
	h.clients[client.UserID] = client
	count := len(h.clients)
	h.mux.Unlock()
	log.Printf("User %d connected to hub (total: %d)", client.UserID, count)
}

// Unregister removes a client connection and clears all of its room
// memberships.
func (h *Hub) Unregister(userID uint) {
	h.mux.Lock()
	if client, exists := h.clients[userID]; exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
	}
	delete(h.clients, userID)
	for roomID, members := range h.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	count := len(h.clients)
	h.mux.Unlock()
	log.Printf("User %d disconnected from hub (total: %d)", userID, count)
}

// JoinRoom adds a connected user to a room. A session may join several rooms
// over its lifetime; membership lasts until disconnect.
func (h *Hub) JoinRoom(roomID string, userID uint) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if _, connected := h.clients[userID]; !connected {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[uint]struct{})
		h.rooms[roomID] = members
	}
	members[userID] = struct{}{}
}

// RoomMembers returns a snapshot of the user IDs in a room.
func (h *Hub) RoomMembers(roomID string) []uint {
	h.mux.RLock()
	defer h.mux.RUnlock()
	members := make([]uint, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		members = append(members, id)
	}
	return members
}

// IsConnected checks whether a user has a live connection in this hub.
func (h *Hub) IsConnected(userID uint) bool {
	h.mux.RLock()
	defer h.mux.RUnlock()
	_, exists := h.clients[userID]
	return exists
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.clients)
}

// BroadcastToRoom sends an event envelope to every room member except
// excludeUserID. Pass excludeUserID 0 to reach the full room. Write failures
// drop the event for that recipient and unregister the connection.
func (h *Hub) BroadcastToRoom(roomID string, excludeUserID uint, eventType string, payload interface{}) {
	data, err := MarshalEvent(eventType, payload)
	if err != nil {
		log.Printf("Error marshaling %s event for room %s: %v", eventType, roomID, err)
		return
	}

	h.mux.RLock()
	recipients := make([]*ClientConnection, 0, len(h.rooms[roomID]))
	for userID := range h.rooms[roomID] {
		if userID == excludeUserID {
			continue
		}
		if client, exists := h.clients[userID]; exists {
			recipients = append(recipients, client)
		}
	}
	h.mux.RUnlock()

	for _, client := range recipients {
		if err := client.Send(data); err != nil {
			log.Printf("Error broadcasting %s to user %d: %v", eventType, client.UserID, err)
			h.Unregister(client.UserID)
		}
	}
}

// MarshalEvent wraps a payload in the wire envelope.
func MarshalEvent(eventType string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(SerializedMessage{Type: eventType, Payload: body})
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.mux.RLock()
			_, exists := h.clients[client.UserID]
			h.mux.RUnlock()

			if !exists {
				return
			}

			if err := client.Ping(time.Now().Add(10 * time.Second)); err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client.UserID)
				return
			}
		}
	}
}

// connectionHealthChecker monitors connection health and removes dead connections
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mux.RLock()
		deadConnections := make([]uint, 0)
		now := time.Now()

		for userID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, userID)
			}
		}
		h.mux.RUnlock()

		for _, userID := range deadConnections {
			log.Printf("Removing dead connection for user %d (no pong received)", userID)
			h.Unregister(userID)
		}
	}
}
