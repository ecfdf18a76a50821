package contract

import (
	"context"

	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PolicyDocumentRepository interface {
	Create(ctx context.Context, doc *entity.PolicyDocument) error
	Update(ctx context.Context, doc *entity.PolicyDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
