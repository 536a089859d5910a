package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/strangerlabs/ghostline/internal/model/chat"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSink) HandleMessage(_, text string) {
	s.mu.Lock()
	s.messages = append(s.messages, text)
	s.mu.Unlock()
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func dialTestServer(t *testing.T, hub *Hub, sink MessageSink) *websocket.Conn {
	t.Helper()

	r := chi.NewRouter()
	New(hub, sink).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/u1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForConnection(t *testing.T, hub *Hub, userID string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		_, ok := hub.conns[userID]
		hub.mu.RUnlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("connection never registered")
}

func TestInboundMessagesReachSink(t *testing.T) {
	hub := NewHub()
	sink := &recordingSink{}
	conn := dialTestServer(t, hub, sink)

	frames := []Envelope{
		{Type: "message", Text: "hello"},
		{Type: "typing"},            // wrong direction, dropped
		{Type: "message", Text: ""}, // empty payload, dropped
		{Type: "message", Text: "wyd"},
	}
	for _, f := range frames {
		if err := conn.WriteJSON(f); err != nil {
			t.Fatalf("write err: %v", err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(sink.snapshot()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	got := sink.snapshot()
	if len(got) != 2 || got[0] != "hello" || got[1] != "wyd" {
		t.Fatalf("unexpected sink messages: %v", got)
	}
}

func TestDeliverReachesClient(t *testing.T) {
	hub := NewHub()
	conn := dialTestServer(t, hub, &recordingSink{})
	waitForConnection(t, hub, "u1")

	hub.SendTyping("u1")
	hub.Deliver("u1", chat.Delivery{Type: chat.DeliveryMessage, Text: "kaisa hai"})

	conn.SetReadDeadline(time.Now().Add(time.Second))

	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if env.Type != "typing" {
		t.Fatalf("expected typing frame first, got %+v", env)
	}

	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if env.Type != "message" || env.Text != "kaisa hai" {
		t.Fatalf("unexpected frame: %+v", env)
	}
}

func TestDeliverToAbsentUserIsNoop(t *testing.T) {
	hub := NewHub()
	// Nothing to assert beyond not panicking.
	hub.Deliver("nobody", chat.Delivery{Type: chat.DeliveryMessage, Text: "hi"})
	hub.SendTyping("nobody")
}
