// Package humanize post-processes model output with casing, typo, slang and
// emoji perturbations so replies read like they were typed by a person.
// Every stage is probabilistic, independently toggleable, and pure given a
// random source; none of them change what the message says.
package humanize

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

// Config holds the per-stage gates. A probability of 0 disables a stage; a
// probability of 1 makes it fire every time, which is how tests pin it down.
type Config struct {
	StripDisclaimer bool
	LowercaseProb   float64
	TypoProb        float64
	SlangProb       float64
	EmojiProb       float64
}

// DefaultConfig returns the production gates.
func DefaultConfig() Config {
	return Config{
		StripDisclaimer: true,
		LowercaseProb:   0.5,
		TypoProb:        0.15,
		SlangProb:       0.20,
		EmojiProb:       0.25,
	}
}

// typoMap holds the mild word-level substitutions the typo stage picks from.
var typoMap = map[string]string{
	"you":     "u",
	"are":     "r",
	"your":    "ur",
	"because": "bc",
	"really":  "rlly",
	"okay":    "okey",
	"bro":     "bru",
}

var disclaimerRe = regexp.MustCompile(`(?i)^As an AI[^\n]*\n?`)

// Humanizer applies the fixed stage pipeline with one shared random source.
type Humanizer struct {
	cfg   Config
	model BehaviorModel

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a humanizer. A nil rng falls back to a time-seeded source.
func New(cfg Config, model BehaviorModel, rng *rand.Rand) *Humanizer {
	if rng == nil {
		rng = newDefaultRand()
	}
	if len(model.Slang) == 0 && len(model.TopEmojis) == 0 {
		model = DefaultBehaviorModel()
	}
	return &Humanizer{cfg: cfg, model: model, rng: rng}
}

// Rewrite runs the pipeline over raw model output. Stage order is fixed:
// disclaimer strip, leading lowercase, typo, slang, emoji.
func (h *Humanizer) Rewrite(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text
	}

	if h.cfg.StripDisclaimer {
		text = stripDisclaimer(text)
		if text == "" {
			// The reply was nothing but a disclaimer line.
			return text
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	text = lowercaseLead(text, h.rng, h.cfg.LowercaseProb)
	text = injectTypo(text, h.rng, h.cfg.TypoProb)
	text = injectSlang(text, h.rng, h.cfg.SlangProb, h.model.Slang)
	text = injectEmoji(text, h.rng, h.cfg.EmojiProb, h.model.TopEmojis)
	return text
}

// stripDisclaimer drops a leading "As an AI ..." line.
func stripDisclaimer(text string) string {
	return strings.TrimSpace(disclaimerRe.ReplaceAllString(text, ""))
}

// lowercaseLead sometimes lowercases the first letter.
func lowercaseLead(text string, rng *rand.Rand, prob float64) string {
	if prob <= 0 || rng.Float64() >= prob {
		return text
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	first := strings.ToLower(string(runes[0]))
	return first + string(runes[1:])
}

// injectTypo substitutes one random word with its casual misspelling when
// the word has an entry in typoMap.
func injectTypo(text string, rng *rand.Rand, prob float64) string {
	if prob <= 0 || rng.Float64() >= prob {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	idx := rng.Intn(len(words))
	if replacement, ok := typoMap[strings.ToLower(words[idx])]; ok {
		words[idx] = replacement
	}
	return strings.Join(words, " ")
}

// injectSlang prepends or appends a slang token.
func injectSlang(text string, rng *rand.Rand, prob float64, slang []string) string {
	if prob <= 0 || len(slang) == 0 || rng.Float64() >= prob {
		return text
	}
	token := slang[rng.Intn(len(slang))]
	if rng.Float64() < 0.5 {
		return text + " " + token
	}
	return token + " " + text
}

// injectEmoji prepends or appends an emoji from the frequency-ranked list.
func injectEmoji(text string, rng *rand.Rand, prob float64, emojis []string) string {
	if prob <= 0 || len(emojis) == 0 || rng.Float64() >= prob {
		return text
	}
	emoji := emojis[rng.Intn(len(emojis))]
	if rng.Float64() < 0.5 {
		return text + " " + emoji
	}
	return emoji + " " + text
}
