package usecase

import (
	"context"
	"log"
	"strings"
)

// Static templates used when the generator fails. A broken LLM must
// never abort a lead or a followup.
const (
	fallbackInitial  = "Hi! I just saw your post and I'm very interested in the opportunity. I'd love to tell you more about my background. Could we talk?"
	fallbackFollowup = "Hi! I wanted to follow up on our previous conversation. I'm still very interested in the opportunity and would love to hear from you. Would you have any updates to share?"
)

// MessageComposer is the single front-end to the Text Generator for
// both initial outreach and follow-ups.
type MessageComposer struct {
	Generator  TextGenerator
	History    HistoryRepositoryInterface
	MaxHistory int // history entries handed to the generator as context
}

func NewMessageComposer(generator TextGenerator, history HistoryRepositoryInterface, maxHistory int) *MessageComposer {
	if maxHistory <= 0 {
		maxHistory = 3
	}
	return &MessageComposer{
		Generator:  generator,
		History:    history,
		MaxHistory: maxHistory,
	}
}

// Compose returns ready-to-send text. It never fails: history read
// errors shrink the context, generator errors fall back to a static
// template.
func (c *MessageComposer) Compose(ctx context.Context, purpose Purpose, contactID, contextText string) string {
	history, err := c.History.Recent(ctx, contactID, c.MaxHistory)
	if err != nil {
		log.Printf("[COMPOSER] erro ao ler histórico de %s: %v", contactID, err)
		history = nil
	}

	message, err := c.Generator.Compose(ctx, purpose, history, contextText)
	if err != nil || strings.TrimSpace(message) == "" {
		if err != nil {
			log.Printf("[COMPOSER] gerador falhou (%s): %v, usando template fixo", purpose, err)
		}
		return FallbackMessage(purpose)
	}

	return strings.TrimSpace(message)
}

func FallbackMessage(purpose Purpose) string {
	if purpose == PurposeFollowup {
		return fallbackFollowup
	}
	return fallbackInitial
}
