// Package trigger implements persona-scoped scripted overrides. Rules and
// sequences are data: adding a persona quirk means adding an entry here, not
// touching the generation path.
package trigger

import (
	"strings"
	"time"
)

// Rule matches a normalized user message for one persona. Exact entries are
// compared whole; Contains entries match as substrings.
type Rule struct {
	PersonaKey string
	Exact      []string
	Contains   []string
	SequenceID string
}

// ScriptStep is one timed message of a scripted sequence. Typing asks the
// front end to show a typing indicator before the wait.
type ScriptStep struct {
	Text   string
	Delay  time.Duration
	Typing bool
}

// ScriptSequence is an ordered scripted response. Disconnect terminates the
// session after the last step is delivered.
type ScriptSequence struct {
	Steps      []ScriptStep
	Disconnect bool
}

// Engine evaluates rules ahead of any model call.
type Engine struct {
	rules     []Rule
	sequences map[string]ScriptSequence
}

// NewEngine builds an engine from explicit rule and sequence tables.
func NewEngine(rules []Rule, sequences map[string]ScriptSequence) *Engine {
	return &Engine{rules: rules, sequences: sequences}
}

// NewDefaultEngine builds an engine with the built-in persona rules.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultRules(), DefaultSequences())
}

// Match checks the incoming text against the rules for personaKey and
// returns the matching sequence ID. Matching is case-insensitive on the
// trimmed message.
func (e *Engine) Match(personaKey, text string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return "", false
	}

	for _, rule := range e.rules {
		if rule.PersonaKey != personaKey {
			continue
		}
		for _, exact := range rule.Exact {
			if normalized == exact {
				return rule.SequenceID, true
			}
		}
		for _, sub := range rule.Contains {
			if strings.Contains(normalized, sub) {
				return rule.SequenceID, true
			}
		}
	}
	return "", false
}

// Sequence resolves a sequence ID. A missing sequence for a matched rule is
// a configuration defect the caller must degrade from.
func (e *Engine) Sequence(id string) (ScriptSequence, bool) {
	seq, ok := e.sequences[id]
	return seq, ok
}

// DefaultRules returns the built-in persona rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			PersonaKey: "north_indian",
			Exact:      []string{"m", "male"},
			SequenceID: "indian_male_beg",
		},
		{
			PersonaKey: "indo_teen",
			Contains:   []string{"india", "indian"},
			SequenceID: "skip",
		},
	}
}

// DefaultSequences returns the scripted responses for the built-in rules.
func DefaultSequences() map[string]ScriptSequence {
	return map[string]ScriptSequence{
		"indian_male_beg": {
			Steps: []ScriptStep{
				{Text: "bro any girls id?", Delay: time.Second},
				{Text: "give me", Delay: 2 * time.Second, Typing: true},
				{Text: "🚫 [AI LOGIC] Partner Disconnected.", Delay: time.Second},
			},
			Disconnect: true,
		},
		"skip": {
			Steps: []ScriptStep{
				{Text: "🚫 [AI LOGIC] Partner Disconnected (Skip Trigger).", Delay: 500 * time.Millisecond},
			},
			Disconnect: true,
		},
	}
}
