package contract

import (
	"context"

	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredPolicyEmbedding wraps a PolicyEmbedding with its cosine similarity
type ScoredPolicyEmbedding struct {
	Embedding  *entity.PolicyEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type PolicyEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.PolicyEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.PolicyEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the top candidates ordered by descending
	// cosine similarity
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredPolicyEmbedding, error)
}
