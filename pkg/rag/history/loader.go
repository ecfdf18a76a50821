// Package history turns persisted chat messages into the short conversation
// window handed to the language model.
package history

import (
	"context"
	"log"

	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/specification"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// DefaultWindow is how many recent messages are replayed to the model.
const DefaultWindow = 10

type Loader struct {
	uowFactory unitofwork.RepositoryFactory
	window     int
	logger     *log.Logger
}

func NewLoader(uowFactory unitofwork.RepositoryFactory, window int, logger *log.Logger) *Loader {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Loader{uowFactory: uowFactory, window: window, logger: logger}
}

// LoadConversationHistory returns the most recent messages of a session in
// chronological order, mapped to chat roles. A read failure degrades to an
// empty history rather than failing the turn.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: l.window},
	)
	if err != nil {
		l.logger.Printf("history load failed for session %s: %v", sessionId, err)
		return nil, err
	}

	// Fetched newest-first, replayed oldest-first.
	history := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		role := "user"
		if msg.Role == entity.ChatMessageRoleAssistant {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: msg.Text})
	}
	return history, nil
}
