package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PolicyEmbedding struct {
	Id               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyDocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Chunk            string          `gorm:"type:text;not null"`
	ChunkIndex       int             `gorm:"default:0"`
	Country          string          `gorm:"type:varchar(100);index"`
	Language         string          `gorm:"type:varchar(10)"`
	SourceURL        string          `gorm:"type:text"`
	EmbeddingValue   pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimensionality
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
}

func (PolicyEmbedding) TableName() string {
	return "policy_embeddings"
}
