package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

const (
	defaultHistoryLimit = 10
	maxChatMessageLen   = 2000
)

// ChatbotService forwards website visitor conversations to a chat-completion
// provider under a fixed system prompt.
type ChatbotService struct {
	client       ChatCompleter
	systemPrompt string
	historyLimit int
}

func NewChatbotService(client ChatCompleter, systemPrompt string) *ChatbotService {
	return &ChatbotService{
		client:       client,
		systemPrompt: strings.TrimSpace(systemPrompt),
		historyLimit: defaultHistoryLimit,
	}
}

func (s *ChatbotService) Configured() bool {
	return s != nil && s.client != nil
}

// Reply returns the assistant's answer to message given the prior turns.
// Provider failures come back wrapping one of the entity.ErrChat* sentinels
// when they can be classified.
func (s *ChatbotService) Reply(ctx context.Context, message string, history []entity.ChatMessage) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", invalidInput([]ValidationError{{"message", "is required"}})
	}
	if len(message) > maxChatMessageLen {
		return "", invalidInput([]ValidationError{{"message", "is too long"}})
	}
	if !s.Configured() {
		return "", entity.ErrChatNotConfigured
	}

	return s.client.Complete(ctx, s.conversation(message, history))
}

func (s *ChatbotService) conversation(message string, history []entity.ChatMessage) []entity.ChatMessage {
	var turns []entity.ChatMessage
	for _, m := range history {
		if (m.Role == "user" || m.Role == "assistant") && strings.TrimSpace(m.Content) != "" {
			turns = append(turns, m)
		}
	}
	if len(turns) > s.historyLimit {
		turns = turns[len(turns)-s.historyLimit:]
	}

	out := make([]entity.ChatMessage, 0, len(turns)+2)
	if s.systemPrompt != "" {
		out = append(out, entity.ChatMessage{Role: "system", Content: s.systemPrompt})
	}
	out = append(out, turns...)
	return append(out, entity.ChatMessage{Role: "user", Content: message})
}
