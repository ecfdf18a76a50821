package implementation

import (
	"context"

	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/mapper"
	"maharaja-assistant-be/internal/model"
	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PolicyEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyMapper
}

func NewPolicyEmbeddingRepository(db *gorm.DB) contract.PolicyEmbeddingRepository {
	return &PolicyEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyMapper(),
	}
}

func (r *PolicyEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.PolicyEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *PolicyEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.PolicyEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.PolicyEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.EmbeddingToEntity(m)
	}
	return nil
}

func (r *PolicyEmbeddingRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("policy_document_id = ?", documentId).Delete(&model.PolicyEmbedding{}).Error
}

func (r *PolicyEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyEmbedding, error) {
	var models []*model.PolicyEmbedding
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PolicyEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

func (r *PolicyEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.PolicyEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs the pgvector cosine search. The metadata and
// threshold filtering happens a layer above; the query only bounds the
// candidate count.
func (r *PolicyEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredPolicyEmbedding, error) {
	if limit <= 0 {
		limit = 15
	}

	// Cosine distance in pgvector is 1 - cosine_similarity
	type result struct {
		model.PolicyEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("policy_embeddings").
		Select("policy_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPolicyEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPolicyEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&res.PolicyEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
