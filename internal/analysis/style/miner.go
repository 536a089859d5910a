// Package style mines slang and emoji vocabularies from the stored user
// message corpus. It runs as a batch job (cmd/tools/stylemine), never on the
// live request path.
package style

import (
	"sort"
	"strings"
)

// Report is the mined vocabulary. Its JSON shape is what the humanizer
// loads as its behavior model.
type Report struct {
	Slang     []string `json:"slang"`
	TopEmojis []string `json:"top_emojis"`
}

// knownSlang passes the length filter regardless of size.
var knownSlang = map[string]bool{
	"ngl": true, "lmao": true, "fr": true, "idk": true, "wyd": true, "hru": true,
}

// isEmojiRune covers the emoticon, symbol, transport and flag blocks.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols & pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport & map
		return true
	case r >= 0x1F1E0 && r <= 0x1F1FF: // regional indicators
		return true
	}
	return false
}

// ExtractEmojis returns every maximal run of emoji runes in s.
func ExtractEmojis(s string) []string {
	var runs []string
	var current []rune
	for _, r := range s {
		if isEmojiRune(r) {
			current = append(current, r)
			continue
		}
		if len(current) > 0 {
			runs = append(runs, string(current))
			current = nil
		}
	}
	if len(current) > 0 {
		runs = append(runs, string(current))
	}
	return runs
}

// StripEmojis replaces emoji runes with spaces so word tokenization cannot
// glue fragments together.
func StripEmojis(s string) string {
	return strings.Map(func(r rune) rune {
		if isEmojiRune(r) {
			return ' '
		}
		return r
	}, s)
}

// Tokenize lower-cases s and splits it into ASCII letter runs.
func Tokenize(s string) []string {
	var tokens []string
	var current []rune
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			current = append(current, r)
			continue
		}
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = nil
		}
	}
	if len(current) > 0 {
		tokens = append(tokens, string(current))
	}
	return tokens
}

// Mine counts word and emoji frequencies across texts and selects slang
// candidates (frequent short tokens) and the topN emoji. Output ordering is
// deterministic: frequency descending, then lexicographic.
func Mine(texts []string, minCount, topN int) Report {
	wordCounts := make(map[string]int)
	emojiCounts := make(map[string]int)

	for _, t := range texts {
		for _, e := range ExtractEmojis(t) {
			emojiCounts[e]++
		}
		for _, w := range Tokenize(StripEmojis(t)) {
			wordCounts[w]++
		}
	}

	var slang []string
	for w, c := range wordCounts {
		if c >= minCount && (len(w) <= 4 || knownSlang[w]) {
			slang = append(slang, w)
		}
	}
	sortByCount(slang, wordCounts)

	emojis := make([]string, 0, len(emojiCounts))
	for e := range emojiCounts {
		emojis = append(emojis, e)
	}
	sortByCount(emojis, emojiCounts)
	if len(emojis) > topN {
		emojis = emojis[:topN]
	}

	return Report{Slang: slang, TopEmojis: emojis}
}

func sortByCount(items []string, counts map[string]int) {
	sort.Slice(items, func(i, j int) bool {
		if counts[items[i]] != counts[items[j]] {
			return counts[items[i]] > counts[items[j]]
		}
		return items[i] < items[j]
	})
}
