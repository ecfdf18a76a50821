package dto

import "github.com/google/uuid"

// PublishEmbedPolicyDocumentMessage asks the consumer to (re)index one
// policy document into the vector store
type PublishEmbedPolicyDocumentMessage struct {
	PolicyDocumentId uuid.UUID `json:"policy_document_id"`
}
