// Package relay drives one message through the conversation core: session
// lookup, trigger check, generation, humanizing, and timed delivery back to
// the front end. Nothing in here is allowed to take the process down.
package relay

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/strangerlabs/ghostline/internal/model/chat"
	"github.com/strangerlabs/ghostline/internal/service/ai"
	"github.com/strangerlabs/ghostline/internal/service/humanize"
	"github.com/strangerlabs/ghostline/internal/service/session"
	"github.com/strangerlabs/ghostline/internal/service/trigger"
)

var ErrNoPendingExchange = errors.New("no exchange awaiting a rating")

// Generator produces a terminal result for one exchange.
type Generator interface {
	Generate(ctx context.Context, sess *chat.Session, userText string) ai.Result
}

// Sender is the outbound half of the front-end boundary.
type Sender interface {
	SendTyping(userID string)
	Deliver(userID string, d chat.Delivery)
}

// CorpusLog receives every exchange for later style mining.
type CorpusLog interface {
	LogMessage(ctx context.Context, sessionID, sender, text string) error
}

// FeedbackSink records rated exchanges.
type FeedbackSink interface {
	RecordExample(ctx context.Context, personaKey, input, output string, rating int) error
}

// pendingExchange is the single exchange per user eligible for a rating.
// Overwritten by the next exchange, consumed by Rate.
type pendingExchange struct {
	personaKey string
	input      string
	output     string
}

// Relay wires the conversation core together.
type Relay struct {
	sessions  *session.Manager
	triggers  *trigger.Engine
	gen       Generator
	humanizer *humanize.Humanizer
	corpus    CorpusLog
	feedback  FeedbackSink
	sender    Sender

	mu      sync.Mutex
	pending map[string]pendingExchange
}

// New builds a relay. gen, humanizer, corpus and feedback may be nil; the
// relay degrades instead of failing.
func New(sessions *session.Manager, triggers *trigger.Engine, gen Generator, humanizer *humanize.Humanizer, corpus CorpusLog, feedback FeedbackSink, sender Sender) *Relay {
	return &Relay{
		sessions:  sessions,
		triggers:  triggers,
		gen:       gen,
		humanizer: humanizer,
		corpus:    corpus,
		feedback:  feedback,
		sender:    sender,
		pending:   make(map[string]pendingExchange),
	}
}

// HandleMessage dispatches processing asynchronously so a slow model call
// for one user never delays another user's messages.
func (r *Relay) HandleMessage(userID, text string) {
	go r.Process(userID, text)
}

// Process runs the full per-message control flow. Per-user ordering is
// guaranteed by the session manager's processing lock.
func (r *Relay) Process(userID, text string) {
	active, ok := r.sessions.Acquire(userID)
	if !ok {
		r.sender.Deliver(userID, chat.Delivery{
			Type: chat.DeliveryPromptStart,
			Text: "Run /start to configure a persona first.",
		})
		return
	}
	defer active.Release()

	sess := active.Session
	r.logMessage(sess.ID, chat.SpeakerUser, text)

	if seqID, matched := r.triggers.Match(sess.PersonaKey, text); matched {
		seq, defined := r.triggers.Sequence(seqID)
		if defined {
			r.playSequence(userID, active, seq)
			return
		}
		// Matched rule without a sequence is a configuration defect;
		// degrade to the normal generation path.
		log.Printf("[relay] trigger %q for persona=%s has no sequence, generating instead", seqID, sess.PersonaKey)
	}

	r.sender.SendTyping(userID)

	if r.gen == nil {
		r.sender.Deliver(userID, chat.Delivery{
			Type: chat.DeliveryError,
			Text: "⚠️ model offline, try again later.",
		})
		return
	}

	res := r.gen.Generate(active.Ctx, sess, text)
	if res.Kind == ai.ResultError {
		r.sender.Deliver(userID, chat.Delivery{Type: chat.DeliveryError, Text: res.Content})
		return
	}

	// History keeps the raw reply; humanizing is a delivery concern.
	active.AppendExchange(text, res.Content)

	reply := res.Content
	if r.humanizer != nil {
		reply = r.humanizer.Rewrite(reply)
	}

	r.setPending(userID, sess.PersonaKey, text, reply)
	r.logMessage(sess.ID, chat.SpeakerAgent, reply)

	if !r.wait(active.Ctx, res.Delay) {
		// Session torn down mid-wait; do not deliver into a dead session.
		return
	}
	r.sender.Deliver(userID, chat.Delivery{Type: chat.DeliveryMessage, Text: reply})
}

// Rate consumes the user's pending exchange and records it with the given
// rating. A second rating for the same exchange fails with
// ErrNoPendingExchange.
func (r *Relay) Rate(ctx context.Context, userID string, rating int) error {
	r.mu.Lock()
	ex, ok := r.pending[userID]
	if ok {
		delete(r.pending, userID)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNoPendingExchange
	}
	if r.feedback == nil {
		return nil
	}
	return r.feedback.RecordExample(ctx, ex.personaKey, ex.input, ex.output, rating)
}

func (r *Relay) playSequence(userID string, active *session.Active, seq trigger.ScriptSequence) {
	for _, step := range seq.Steps {
		if step.Typing {
			r.sender.SendTyping(userID)
		}
		if !r.wait(active.Ctx, step.Delay) {
			return
		}
		r.sender.Deliver(userID, chat.Delivery{Type: chat.DeliveryMessage, Text: step.Text})
	}
	if seq.Disconnect {
		r.sender.Deliver(userID, chat.Delivery{Type: chat.DeliveryDisconnected})
		r.sessions.End(context.Background(), userID)
	}
}

// wait sleeps for d unless the session context is cancelled first.
func (r *Relay) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *Relay) setPending(userID, personaKey, input, output string) {
	r.mu.Lock()
	r.pending[userID] = pendingExchange{personaKey: personaKey, input: input, output: output}
	r.mu.Unlock()
}

func (r *Relay) logMessage(sessionID string, speaker chat.Speaker, text string) {
	if r.corpus == nil {
		return
	}
	if err := r.corpus.LogMessage(context.Background(), sessionID, string(speaker), text); err != nil {
		log.Printf("[relay] failed to log message for session=%s: %v", sessionID, err)
	}
}
