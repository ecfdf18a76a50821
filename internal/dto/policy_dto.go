package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestPolicyDocumentRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
	Country   string `json:"country,omitempty" validate:"omitempty,len=2"`
	Language  string `json:"language" validate:"required,oneof=en hi"`
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`
}

type IngestPolicyDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type PolicyDocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Country   string    `json:"country,omitempty"`
	Language  string    `json:"language"`
	SourceURL string    `json:"source_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
