// Package ws carries the chat front-end channel: user messages in, typing
// indicators and timed deliveries out.
package ws

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// MessageSink is where inbound user messages go.
type MessageSink interface {
	HandleMessage(userID, text string)
}

// Handler upgrades chat connections and pumps inbound frames to the relay.
type Handler struct {
	hub      *Hub
	sink     MessageSink
	upgrader websocket.Upgrader
}

// New creates the WebSocket handler.
func New(hub *Hub, sink MessageSink) *Handler {
	return &Handler{
		hub:  hub,
		sink: sink,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the chat channel route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/{userID}", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "userID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user=%s: %v", userID, err)
		return
	}

	c := h.hub.register(userID, conn)
	defer func() {
		h.hub.unregister(userID, c)
		conn.Close()
	}()

	log.Printf("[ws] channel open for user=%s", userID)

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read failed for user=%s: %v", userID, err)
			}
			return
		}
		if env.Type != "message" || env.Text == "" {
			continue
		}
		h.sink.HandleMessage(userID, env.Text)
	}
}
