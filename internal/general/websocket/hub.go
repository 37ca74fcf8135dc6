package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"delivery-dispatch/internal/general/logger"
)

const writeTimeout = 5 * time.Second

// Hub stores active WebSocket connections keyed by user ID. A reconnect
// replaces the old connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*websocket.Conn
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		log:     log,
	}
}

// Add registers a new connection under a user ID.
func (h *Hub) Add(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[id]; ok {
		_ = old.Close()
	}
	h.clients[id] = conn
	h.log.Info("websocket registered", logger.String("user_id", id))
}

// Remove deletes and closes a connection, but only if it is still the one
// registered under the id. A reconnect's replacement stays untouched.
func (h *Hub) Remove(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[id]; ok && cur == conn {
		_ = cur.Close()
		delete(h.clients, id)
		h.log.Info("websocket removed", logger.String("user_id", id))
	}
}

// Send transmits a JSON message to a connected user. Not being connected
// is not an error.
func (h *Hub) Send(id string, msg any) error {
	h.mu.RLock()
	conn, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

// ListConnected returns all connected IDs (for debugging/admin tools).
func (h *Hub) ListConnected() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]string, 0, len(h.clients))
	for k := range h.clients {
		keys = append(keys, k)
	}
	return keys
}
