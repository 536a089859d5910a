package style

import (
	"reflect"
	"testing"
)

func TestExtractEmojis(t *testing.T) {
	got := ExtractEmojis("lol 😂😂 ok 🚀")
	want := []string{"😂😂", "🚀"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestStripEmojisSeparatesWords(t *testing.T) {
	got := Tokenize(StripEmojis("hey😂bro"))
	want := []string{"hey", "bro"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	got := Tokenize("Bro, WYD?? idk...")
	want := []string{"bro", "wyd", "idk"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMineSlangThreshold(t *testing.T) {
	texts := []string{
		"wyd bro", "wyd", "wyd now", "wyd again", "wyd seriously",
		"hello hello",
	}
	report := Mine(texts, 5, 10)

	if !reflect.DeepEqual(report.Slang, []string{"wyd"}) {
		t.Fatalf("expected only wyd (5 hits), got %v", report.Slang)
	}
}

func TestMineLongWordsNeedKnownSlang(t *testing.T) {
	texts := []string{"seriously", "seriously", "seriously", "seriously", "seriously",
		"lmao", "lmao", "lmao", "lmao", "lmao"}
	report := Mine(texts, 5, 10)

	if !reflect.DeepEqual(report.Slang, []string{"lmao"}) {
		t.Fatalf("long non-slang words must be excluded, got %v", report.Slang)
	}
}

func TestMineTopEmojis(t *testing.T) {
	texts := []string{"😂", "😂", "😂", "😅", "😅", "🚀"}
	report := Mine(texts, 5, 2)

	want := []string{"😂", "😅"}
	if !reflect.DeepEqual(report.TopEmojis, want) {
		t.Fatalf("got %v want %v", report.TopEmojis, want)
	}
}

func TestMineEmptyCorpus(t *testing.T) {
	report := Mine(nil, 5, 10)
	if len(report.Slang) != 0 || len(report.TopEmojis) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
