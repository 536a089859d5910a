package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/strangerlabs/ghostline/internal/model/chat"
)

// stubModel stands in for the Ark model so generation can be exercised
// without a network.
type stubModel struct {
	reply     string
	err       error
	calls     int
	lastInput []*schema.Message
}

func (m *stubModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream unsupported in stub")
}

func (m *stubModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func newTestService(t *testing.T, stub *stubModel) *Service {
	t.Helper()
	svc, err := NewServiceWithModel(context.Background(), stub)
	if err != nil {
		t.Fatalf("NewServiceWithModel err: %v", err)
	}
	return svc
}

func testSession() *chat.Session {
	return &chat.Session{
		ID:           "s1",
		UserID:       "u1",
		PersonaKey:   "north_indian",
		SystemPrompt: "You are 19M from Delhi.",
	}
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubModel{reply: "  kaisa hai bhai  "}
	svc := newTestService(t, stub)
	sess := testSession()

	res := svc.Generate(context.Background(), sess, "hi")

	if res.Kind != ResultText {
		t.Fatalf("expected text result, got %s (%s)", res.Kind, res.Content)
	}
	if res.Content != "kaisa hai bhai" {
		t.Fatalf("expected trimmed reply, got %q", res.Content)
	}
	if len(sess.History) != 0 {
		t.Fatalf("Generate must not touch history, got %d turns", len(sess.History))
	}
	if res.Delay != DeliveryDelay("kaisa hai bhai") {
		t.Fatalf("delay mismatch: %v", res.Delay)
	}
}

func TestGenerateWindowsHistory(t *testing.T) {
	stub := &stubModel{reply: "ok"}
	svc := newTestService(t, stub)
	sess := testSession()

	for i := 0; i < 10; i++ {
		sess.History = append(sess.History,
			chat.Turn{Speaker: chat.SpeakerUser, Text: fmt.Sprintf("q%d", i)},
			chat.Turn{Speaker: chat.SpeakerAgent, Text: fmt.Sprintf("a%d", i)},
		)
	}

	svc.Generate(context.Background(), sess, "latest")

	// system + 6 windowed turns + current query
	if len(stub.lastInput) != 8 {
		t.Fatalf("expected 8 request messages, got %d", len(stub.lastInput))
	}
	if stub.lastInput[0].Role != schema.System {
		t.Fatalf("first message must be system, got %s", stub.lastInput[0].Role)
	}
	if stub.lastInput[0].Content != sess.SystemPrompt {
		t.Fatalf("system prompt mismatch: %q", stub.lastInput[0].Content)
	}
	// 20 stored turns, so the window starts at turn index 14.
	if stub.lastInput[1].Content != "q7" {
		t.Fatalf("window must keep only the last 6 turns, got %q first", stub.lastInput[1].Content)
	}
	last := stub.lastInput[len(stub.lastInput)-1]
	if last.Role != schema.User || last.Content != "latest" {
		t.Fatalf("last message must be the new user turn, got %+v", last)
	}
}

func TestGenerateFailureIsTerminal(t *testing.T) {
	stub := &stubModel{err: errors.New("rate limit exceeded: slow down and retry after some seconds please")}
	svc := newTestService(t, stub)
	sess := testSession()

	res := svc.Generate(context.Background(), sess, "hi")

	if res.Kind != ResultError {
		t.Fatalf("expected error result, got %s", res.Kind)
	}
	if res.Content == "" {
		t.Fatal("error result must carry a user-safe message")
	}
	if !strings.Contains(res.Content, "...") {
		t.Fatalf("provider detail must be truncated: %q", res.Content)
	}
	if len(sess.History) != 0 {
		t.Fatal("a failed generation must not touch history")
	}
}

func TestDeliveryDelayPolicy(t *testing.T) {
	if got := DeliveryDelay(""); got != 800*time.Millisecond {
		t.Fatalf("empty reply must hit the floor, got %v", got)
	}
	if got := DeliveryDelay("hello"); got != 1050*time.Millisecond {
		t.Fatalf("5 chars must be base+5*perChar, got %v", got)
	}
	if got := DeliveryDelay(strings.Repeat("x", 500)); got != 4*time.Second {
		t.Fatalf("long replies must hit the cap, got %v", got)
	}

	prev := time.Duration(0)
	for n := 0; n <= 200; n += 10 {
		d := DeliveryDelay(strings.Repeat("x", n))
		if d < prev {
			t.Fatalf("delay must be non-decreasing, %v after %v", d, prev)
		}
		prev = d
	}
}
