// Package embedding generates text embeddings for policy passages and
// user queries.
package embedding

// TaskType hints to backends that distinguish document and query embeddings
const (
	TaskDocument = "retrieval_document"
	TaskQuery    = "retrieval_query"
)

// EmbeddingResponse carries one embedding vector
type EmbeddingResponse struct {
	Values []float32
}

// EmbeddingProvider is the contract for embedding backends.
// Returned vectors are unit length so cosine similarity is meaningful.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
