package trigger_test

import (
	"testing"

	"github.com/strangerlabs/ghostline/internal/service/trigger"
)

func TestMatchExactNormalizes(t *testing.T) {
	engine := trigger.NewDefaultEngine()

	for _, input := range []string{"m", "M", "  Male ", "male"} {
		seqID, ok := engine.Match("north_indian", input)
		if !ok {
			t.Fatalf("expected match for %q", input)
		}
		if seqID != "indian_male_beg" {
			t.Fatalf("unexpected sequence for %q: %s", input, seqID)
		}
	}
}

func TestMatchSubstring(t *testing.T) {
	engine := trigger.NewDefaultEngine()

	seqID, ok := engine.Match("indo_teen", "are you from India?")
	if !ok {
		t.Fatal("expected substring match")
	}
	if seqID != "skip" {
		t.Fatalf("unexpected sequence: %s", seqID)
	}
}

func TestMatchScopedToPersona(t *testing.T) {
	engine := trigger.NewDefaultEngine()

	if _, ok := engine.Match("american_girl", "m"); ok {
		t.Fatal("rule for north_indian must not fire for another persona")
	}
	if _, ok := engine.Match("north_indian", "hello"); ok {
		t.Fatal("unrelated text must not match")
	}
	if _, ok := engine.Match("north_indian", ""); ok {
		t.Fatal("empty text must not match")
	}
}

func TestSequenceLookup(t *testing.T) {
	engine := trigger.NewDefaultEngine()

	seq, ok := engine.Sequence("indian_male_beg")
	if !ok {
		t.Fatal("expected built-in sequence")
	}
	if len(seq.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(seq.Steps))
	}
	if !seq.Disconnect {
		t.Fatal("beg sequence must disconnect")
	}

	if _, ok := engine.Sequence("missing"); ok {
		t.Fatal("unknown sequence must not resolve")
	}
}

func TestMatchedRuleWithoutSequence(t *testing.T) {
	engine := trigger.NewEngine(
		[]trigger.Rule{{PersonaKey: "p", Exact: []string{"hi"}, SequenceID: "ghost"}},
		map[string]trigger.ScriptSequence{},
	)

	seqID, ok := engine.Match("p", "hi")
	if !ok || seqID != "ghost" {
		t.Fatalf("expected rule match, got %q ok=%v", seqID, ok)
	}
	if _, ok := engine.Sequence(seqID); ok {
		t.Fatal("sequence must be reported missing so the caller can degrade")
	}
}
