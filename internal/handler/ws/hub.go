package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/strangerlabs/ghostline/internal/model/chat"
)

// Envelope is the JSON frame exchanged with the front end in both
// directions.
type Envelope struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

const typeTyping = "typing"

// client wraps a connection with a write lock; gorilla allows only one
// concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(env)
}

// Hub tracks the active connection per user and implements the relay's
// Sender boundary. A user with no connection simply misses the delivery;
// sessions are ephemeral so there is nothing to replay.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*client)}
}

// SendTyping pushes a typing indicator to the user's connection.
func (h *Hub) SendTyping(userID string) {
	h.send(userID, Envelope{Type: typeTyping})
}

// Deliver pushes one outbound delivery to the user's connection.
func (h *Hub) Deliver(userID string, d chat.Delivery) {
	h.send(userID, Envelope{Type: string(d.Type), Text: d.Text})
}

func (h *Hub) send(userID string, env Envelope) {
	h.mu.RLock()
	c, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.write(env); err != nil {
		log.Printf("[ws] write failed for user=%s: %v", userID, err)
	}
}

// register binds a connection to a user, replacing any previous one.
func (h *Hub) register(userID string, conn *websocket.Conn) *client {
	c := &client{conn: conn}
	h.mu.Lock()
	prev := h.conns[userID]
	h.conns[userID] = c
	h.mu.Unlock()

	if prev != nil {
		prev.conn.Close()
	}
	return c
}

// unregister removes the binding if it still points at c.
func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	if h.conns[userID] == c {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
}
