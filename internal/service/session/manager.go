// Package session owns per-user conversation state. Sessions are ephemeral
// by design: a process restart loses them all, and that is the contract.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strangerlabs/ghostline/internal/model/chat"
	"github.com/strangerlabs/ghostline/internal/model/persona"
	"github.com/strangerlabs/ghostline/internal/service/prompt"
	"github.com/strangerlabs/ghostline/internal/store"
)

var ErrPersonaNotFound = errors.New("persona not found")

const (
	positiveRating    = 1
	styleExampleCount = 2
)

// ExampleSampler supplies rated style examples for prompt composition.
type ExampleSampler interface {
	SampleExamples(ctx context.Context, personaKey string, rating, n int) ([]store.Example, error)
}

// Recorder mirrors session lifecycle into the side-channel store. Both
// methods are best-effort from the manager's point of view.
type Recorder interface {
	CreateSession(ctx context.Context, sessionID, userID, personaKey, gender, country string) error
	EndSession(ctx context.Context, sessionID string) error
}

// userSession pairs the session with its locks and teardown context. busy
// serializes message processing per user; stateMu guards reads and writes
// of the session struct itself, so Get can copy it while an exchange is in
// flight; ctx is cancelled when the session ends so in-flight delivery
// waits can abort.
type userSession struct {
	sess    *chat.Session
	busy    sync.Mutex
	stateMu sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// Manager keeps one active session per user, last-write-wins.
type Manager struct {
	personas persona.Store
	examples ExampleSampler
	recorder Recorder

	mu       sync.RWMutex
	sessions map[string]*userSession
}

// NewManager builds a manager. examples and recorder may be nil when the
// side channel is unavailable.
func NewManager(personas persona.Store, examples ExampleSampler, recorder Recorder) *Manager {
	return &Manager{
		personas: personas,
		examples: examples,
		recorder: recorder,
		sessions: make(map[string]*userSession),
	}
}

// Start opens a fresh session for the user. Any prior session is torn down
// first; history never carries over between personas. Fails closed with
// ErrPersonaNotFound when the key is unknown.
func (m *Manager) Start(ctx context.Context, userID, personaKey string, profile chat.StrangerProfile) (chat.Session, error) {
	p, ok := m.personas.FindByKey(personaKey)
	if !ok {
		return chat.Session{}, ErrPersonaNotFound
	}

	systemPrompt := prompt.Compose(p.SystemPrompt, profile, m.sampleStyleExamples(ctx, personaKey))

	sess := &chat.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		PersonaKey:   personaKey,
		SystemPrompt: systemPrompt,
		Profile:      profile,
		StartedAt:    time.Now().UTC(),
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	entry := &userSession{sess: sess, ctx: sessCtx, cancel: cancel}

	m.mu.Lock()
	prior := m.sessions[userID]
	m.sessions[userID] = entry
	m.mu.Unlock()

	if prior != nil {
		m.teardown(ctx, prior)
	}

	if m.recorder != nil {
		if err := m.recorder.CreateSession(ctx, sess.ID, userID, personaKey, profile.Gender, profile.Country); err != nil {
			log.Printf("[session] failed to record session start for user=%s: %v", userID, err)
		}
	}

	return *sess, nil
}

// Get returns a copy of the user's active session. The copy is taken under
// the session's state lock, so it is safe against a concurrent exchange.
func (m *Manager) Get(userID string) (chat.Session, bool) {
	m.mu.RLock()
	entry, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok {
		return chat.Session{}, false
	}
	entry.stateMu.Lock()
	sess := *entry.sess
	entry.stateMu.Unlock()
	return sess, true
}

// End terminates the user's session. Idempotent: a second call is a no-op.
// Cancels the session context so an in-flight delivery wait aborts.
func (m *Manager) End(ctx context.Context, userID string) {
	m.mu.Lock()
	entry, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if ok {
		m.teardown(ctx, entry)
	}
}

// Active is a per-user exclusive handle on a session. Release must be
// called exactly once.
type Active struct {
	Session *chat.Session
	Ctx     context.Context
	entry   *userSession
	release func()
}

// Release gives up the processing lock.
func (a *Active) Release() {
	a.release()
}

// AppendExchange records both sides of a completed exchange in the session
// history. This is the only path that mutates history; the caller must
// hold the processing lock.
func (a *Active) AppendExchange(userText, reply string) {
	a.entry.stateMu.Lock()
	a.entry.sess.History = append(a.entry.sess.History,
		chat.Turn{Speaker: chat.SpeakerUser, Text: userText},
		chat.Turn{Speaker: chat.SpeakerAgent, Text: reply},
	)
	a.entry.stateMu.Unlock()
}

// Acquire takes the user's processing lock, guaranteeing at most one
// in-flight generate per user. Returns false when no session is active
// (including one ended while waiting for the lock).
func (m *Manager) Acquire(userID string) (*Active, bool) {
	m.mu.RLock()
	entry, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	entry.busy.Lock()

	// The session may have been replaced or ended while blocked above.
	m.mu.RLock()
	current, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok || current != entry {
		entry.busy.Unlock()
		return nil, false
	}

	return &Active{Session: entry.sess, Ctx: entry.ctx, entry: entry, release: entry.busy.Unlock}, true
}

func (m *Manager) teardown(ctx context.Context, entry *userSession) {
	entry.cancel()
	if m.recorder != nil {
		if err := m.recorder.EndSession(ctx, entry.sess.ID); err != nil {
			log.Printf("[session] failed to record session end id=%s: %v", entry.sess.ID, err)
		}
	}
}

func (m *Manager) sampleStyleExamples(ctx context.Context, personaKey string) []prompt.StyleExample {
	if m.examples == nil {
		return nil
	}

	rows, err := m.examples.SampleExamples(ctx, personaKey, positiveRating, styleExampleCount)
	if err != nil {
		log.Printf("[session] failed to sample style examples for persona=%s: %v", personaKey, err)
		return nil
	}

	examples := make([]prompt.StyleExample, 0, len(rows))
	for _, row := range rows {
		examples = append(examples, prompt.StyleExample{Input: row.Input, Output: row.Output})
	}
	return examples
}
