package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types published when the shared cache changes.
const (
	EventInserted = "entry.inserted"
	EventUpdated  = "entry.updated"
	EventRemoved  = "entry.removed"
	EventSwept    = "entries.swept"
)

// Event describes one change to the cache. Values are never included, only keys.
type Event struct {
	Type    string    `json:"type"`
	Key     string    `json:"key,omitempty"`
	Removed int       `json:"removed,omitempty"`
	At      time.Time `json:"at"`
}

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub fans cache events out to every connected client, grouped by the user that opened them.
type Hub struct {
	mu              sync.RWMutex
	userIdToClients map[string]map[Client]struct{}
	now             func() time.Time
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		userIdToClients: make(map[string]map[Client]struct{}),
		now:             time.Now,
	}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userIdToClients[userID]; !ok {
		h.userIdToClients[userID] = make(map[Client]struct{})
	}
	h.userIdToClients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userIdToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userIdToClients, userID)
		}
	}
}

// Clients returns the number of connected clients across all users.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.userIdToClients {
		n += len(clients)
	}
	return n
}

// Publish stamps ev and sends it to every connected client.
// It returns the number of clients that accepted the message.
func (h *Hub) Publish(ev Event) int {
	if ev.At.IsZero() {
		ev.At = h.now()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, clients := range h.userIdToClients {
		for c := range clients {
			// a failed write is cleaned up by the owning handler
			if c.Send(msg) {
				delivered++
			}
		}
	}
	return delivered
}
