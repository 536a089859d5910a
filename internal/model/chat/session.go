package chat

import "time"

// Speaker identifies which side of the conversation produced a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// Turn is one utterance in a session's history.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// StrangerProfile holds the attributes the user declares at session start.
// They describe who the user pretends to be towards the persona.
type StrangerProfile struct {
	Gender      string `json:"gender"`
	Country     string `json:"country"`
	AgentGender string `json:"agentGender,omitempty"`
}

// Session captures a transient per-user conversation bound to one persona.
// The composed system prompt is fixed for the session lifetime; history is
// append-only and lives only in memory.
type Session struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	PersonaKey   string          `json:"personaKey"`
	SystemPrompt string          `json:"-"`
	Profile      StrangerProfile `json:"profile"`
	History      []Turn          `json:"-"`
	StartedAt    time.Time       `json:"startedAt"`
}
