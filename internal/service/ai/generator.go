// Package ai invokes the upstream chat model and converts its output into a
// terminal result the relay can always act on. Provider failures surface as
// error-kind results, never as raw errors.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/strangerlabs/ghostline/internal/config"
	"github.com/strangerlabs/ghostline/internal/model/chat"
)

// historyWindow bounds how many stored turns accompany a model request.
// Older turns stay in the session; they just stop riding along.
const historyWindow = 6

// Delivery delay policy: longer replies take visibly longer to arrive,
// bounded so the chat never stalls nor feels instantaneous.
const (
	delayBase    = 800 * time.Millisecond
	delayPerChar = 50 * time.Millisecond
	delayMax     = 4 * time.Second
)

// ResultKind tags the two terminal outcomes of a generation attempt.
type ResultKind string

const (
	ResultText  ResultKind = "text"
	ResultError ResultKind = "error"
)

// Result is what the relay receives for every generation attempt.
type Result struct {
	Kind    ResultKind
	Content string
	Delay   time.Duration
}

// Service owns the compiled prompt-template + model chain.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the generator backed by the configured Ark model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel)
}

// NewServiceWithModel wires the chain around an explicit model. Tests use
// this with a stub model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Generate runs one exchange for the session. It reads the windowed
// history but never mutates it; the caller records the exchange once the
// result is accepted. The caller must hold the session's processing lock.
func (s *Service) Generate(ctx context.Context, sess *chat.Session, userText string) Result {
	input := map[string]any{
		"system":  sess.SystemPrompt,
		"history": buildHistoryMessages(sess.History),
		"query":   userText,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[ai] generation failed for session=%s persona=%s: %v", sess.ID, sess.PersonaKey, err)
		return Result{
			Kind:    ResultError,
			Content: fmt.Sprintf("⚠️ upstream error: %s", truncateRunes(err.Error(), 50)),
		}
	}

	reply := strings.TrimSpace(response.Content)
	log.Printf("[ai] generated reply for session=%s persona=%s length=%d", sess.ID, sess.PersonaKey, len(reply))
	return Result{Kind: ResultText, Content: reply, Delay: DeliveryDelay(reply)}
}

// DeliveryDelay computes the simulated typing delay for a reply.
func DeliveryDelay(reply string) time.Duration {
	delay := delayBase + time.Duration(len([]rune(reply)))*delayPerChar
	if delay > delayMax {
		return delayMax
	}
	if delay < delayBase {
		return delayBase
	}
	return delay
}

// buildHistoryMessages converts the most recent session turns into model
// messages, never exceeding historyWindow entries.
func buildHistoryMessages(history []chat.Turn) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyWindow {
		startIdx = len(history) - historyWindow
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, turn := range history[startIdx:] {
		switch turn.Speaker {
		case chat.SpeakerUser:
			messages = append(messages, schema.UserMessage(turn.Text))
		case chat.SpeakerAgent:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return messages
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
