// Package events fans Domain Manager lifecycle events (exits,
// assassinations, scale changes) out to connected operator clients over
// WebSocket: a registry of clients each with a bounded outbound channel,
// non-blocking send, drop on full.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/casual-mw/casual/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is any fan-out payload; Kind selects the client-side handler.
type Event struct {
	Kind      string      `json:"kind"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub tracks connected clients and fans out events to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the connection to a WebSocket and registers it as a
// fan-out destination until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnw("events: upgrade failed", logger.FieldError, err)
		return
	}
	c := &client{conn: conn, send: make(chan Event, 64)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends ev to every connected client, skipping (not blocking
// on) any whose outbound channel is full.
func (h *Hub) Broadcast(kind string, payload interface{}) int {
	ev := Event{Kind: kind, Timestamp: time.Now().UnixMilli(), Payload: payload}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		select {
		case c.send <- ev:
			sent++
		default:
		}
	}
	return sent
}

// MarshalForLog renders an event body for structured log lines, mirroring
// how the rest of the system logs message payloads.
func MarshalForLog(payload interface{}) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return "<unmarshalable>"
	}
	return string(b)
}
