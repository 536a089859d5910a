// Package prompt composes the fixed system instruction for a session.
// Composition is a pure function of its inputs; sampling of style examples
// happens in the caller.
package prompt

import (
	"fmt"
	"strings"

	"github.com/strangerlabs/ghostline/internal/model/chat"
)

// StyleExample is a positively rated exchange the persona should imitate.
type StyleExample struct {
	Input  string
	Output string
}

// Compose builds the system prompt from the persona's base identity, the
// stranger's declared attributes and optional style examples. The counterpart
// description and the behavioral constraints are always present; the mimic
// block only appears when examples are supplied.
func Compose(base string, profile chat.StrangerProfile, examples []StyleExample) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(base))
	b.WriteString("\n[CONTEXT: You are chatting with a stranger on an anonymous chat app.]\n")

	gender := profile.Gender
	if gender == "" {
		gender = "Hidden"
	}
	country := profile.Country
	if country == "" {
		country = "Unknown"
	}
	fmt.Fprintf(&b, "[STRANGER DETAILS: %s, from %s]\n", gender, country)

	if profile.AgentGender != "" {
		fmt.Fprintf(&b, "Your gender: %s.\n", profile.AgentGender)
	}

	b.WriteString("Rules:\n")
	b.WriteString("- You MUST NOT say you are an AI, model, or bot.\n")
	b.WriteString("- Keep replies short (under 15 words) unless telling a story.\n")
	b.WriteString("- Act human: make typos occasionally, go easy on emojis and punctuation.\n")
	b.WriteString("- Sometimes ask questions back to keep the convo going.\n")

	if len(examples) > 0 {
		b.WriteString("[MIMIC THIS STYLE]\n")
		for _, ex := range examples {
			fmt.Fprintf(&b, "Stranger: %s\nYou: %s\n", ex.Input, ex.Output)
		}
	}

	return b.String()
}
