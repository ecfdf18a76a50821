package mapper

import (
	"time"

	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PolicyMapper struct{}

func NewPolicyMapper() *PolicyMapper {
	return &PolicyMapper{}
}

func (m *PolicyMapper) DocumentToEntity(d *model.PolicyDocument) *entity.PolicyDocument {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.PolicyDocument{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Country:   d.Country,
		Language:  d.Language,
		SourceURL: d.SourceURL,
		Metadata:  []byte(d.Metadata),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *PolicyMapper) DocumentToModel(d *entity.PolicyDocument) *model.PolicyDocument {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.PolicyDocument{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Country:   d.Country,
		Language:  d.Language,
		SourceURL: d.SourceURL,
		Metadata:  datatypes.JSON(d.Metadata),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *PolicyMapper) EmbeddingToEntity(e *model.PolicyEmbedding) *entity.PolicyEmbedding {
	if e == nil {
		return nil
	}

	return &entity.PolicyEmbedding{
		Id:               e.Id,
		PolicyDocumentId: e.PolicyDocumentId,
		Chunk:            e.Chunk,
		ChunkIndex:       e.ChunkIndex,
		Country:          e.Country,
		Language:         e.Language,
		SourceURL:        e.SourceURL,
		EmbeddingValue:   e.EmbeddingValue.Slice(),
		CreatedAt:        e.CreatedAt,
	}
}

func (m *PolicyMapper) EmbeddingToModel(e *entity.PolicyEmbedding) *model.PolicyEmbedding {
	if e == nil {
		return nil
	}

	return &model.PolicyEmbedding{
		Id:               e.Id,
		PolicyDocumentId: e.PolicyDocumentId,
		Chunk:            e.Chunk,
		ChunkIndex:       e.ChunkIndex,
		Country:          e.Country,
		Language:         e.Language,
		SourceURL:        e.SourceURL,
		EmbeddingValue:   pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:        e.CreatedAt,
	}
}
