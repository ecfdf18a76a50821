package entity

import (
	"time"

	"github.com/google/uuid"
)

// PolicyEmbedding is one embedded chunk of a policy document. Country,
// language and source are denormalized from the parent document so retrieval
// can filter without a join.
type PolicyEmbedding struct {
	Id               uuid.UUID
	PolicyDocumentId uuid.UUID
	Chunk            string
	ChunkIndex       int
	Country          string
	Language         string
	SourceURL        string
	EmbeddingValue   []float32
	CreatedAt        time.Time
}
