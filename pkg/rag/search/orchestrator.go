// Package search retrieves policy evidence for a query and applies the
// strict-then-relaxed metadata filtering protocol.
package search

import (
	"context"
	"fmt"
	"log"

	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/embedding"
	"maharaja-assistant-be/pkg/store"
)

// Orchestrator runs the vector search and candidate filtering
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Config encapsulates retrieval parameters
type Config struct {
	StrictThreshold  float64
	RelaxedThreshold float64
	TopK             int // results returned to the composer
	TopN             int // candidates requested from the vector store, N >= K
}

func DefaultConfig() Config {
	return Config{
		StrictThreshold:  0.45,
		RelaxedThreshold: 0.25,
		TopK:             5,
		TopN:             15,
	}
}

// Execute embeds the query, fetches candidates and filters them. The strict
// pass requires a country match (when countryContext is set) and the strict
// threshold; when it yields nothing, one relaxed pass drops the country
// constraint and lowers the threshold. An error means the retrieval backend
// itself failed; the caller treats that as "no evidence", not as a turn error.
func (o *Orchestrator) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	countryContext string,
	language string,
	config Config,
) ([]store.Document, error) {

	embeddingRes, err := o.embeddingProvider.Generate(query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := uow.PolicyEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Values,
		config.TopN,
	)
	if err != nil {
		o.logger.Printf("[ERROR] vector search failed: %v", err)
		return nil, err
	}

	candidates := toDocuments(scored)
	o.logger.Printf("[SEARCH] %d raw candidates for %q", len(candidates), query)

	results := FilterStrict(candidates, countryContext, config.StrictThreshold)
	if len(results) == 0 {
		o.logger.Printf("[SEARCH] strict filter empty, relaxing (country=%q)", countryContext)
		results = FilterRelaxed(candidates, config.RelaxedThreshold)
	}

	if len(results) > config.TopK {
		results = results[:config.TopK]
	}

	o.logger.Printf("[SEARCH] returning %d documents", len(results))
	return results, nil
}

// FilterStrict keeps documents at or above the strict threshold whose country
// metadata matches the context. Documents without country metadata pass the
// country check. Input order (descending score) is preserved.
func FilterStrict(docs []store.Document, countryContext string, threshold float64) []store.Document {
	var kept []store.Document
	for _, d := range docs {
		if float64(d.Score) < threshold {
			continue
		}
		if countryContext != "" && d.Country != "" && d.Country != countryContext {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// FilterRelaxed drops the country constraint and lowers the threshold, but
// still never admits documents with no relevance at all.
func FilterRelaxed(docs []store.Document, threshold float64) []store.Document {
	var kept []store.Document
	for _, d := range docs {
		if float64(d.Score) < threshold || d.Score <= 0 {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func toDocuments(scored []*contract.ScoredPolicyEmbedding) []store.Document {
	docs := make([]store.Document, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, store.Document{
			ID:        s.Embedding.Id.String(),
			Content:   s.Embedding.Chunk,
			SourceURL: s.Embedding.SourceURL,
			Country:   s.Embedding.Country,
			Language:  s.Embedding.Language,
			Score:     float32(s.Similarity),
		})
	}
	return docs
}
