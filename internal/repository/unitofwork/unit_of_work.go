package unitofwork

import (
	"context"

	"maharaja-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	PolicyDocumentRepository() contract.PolicyDocumentRepository
	PolicyEmbeddingRepository() contract.PolicyEmbeddingRepository
}
