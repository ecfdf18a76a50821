package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"maharaja-assistant-be/internal/dto"
	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/specification"
	"maharaja-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPolicyService interface {
	IngestDocument(ctx context.Context, request *dto.IngestPolicyDocumentRequest) (*dto.IngestPolicyDocumentResponse, error)
	GetAllDocuments(ctx context.Context) ([]*dto.PolicyDocumentResponse, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// policyService manages the policy knowledge base. Vector indexing happens
// asynchronously through the publisher, the document row is the source of
// truth.
type policyService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewPolicyService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IPolicyService {
	return &policyService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (ps *policyService) IngestDocument(ctx context.Context, request *dto.IngestPolicyDocumentRequest) (*dto.IngestPolicyDocumentResponse, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	document := entity.PolicyDocument{
		Id:        uuid.New(),
		Title:     request.Title,
		Content:   request.Content,
		Country:   request.Country,
		Language:  request.Language,
		SourceURL: request.SourceURL,
		CreatedAt: time.Now(),
	}

	if err := uow.PolicyDocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishEmbedPolicyDocumentMessage{
		PolicyDocumentId: document.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := ps.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.IngestPolicyDocumentResponse{Id: document.Id}, nil
}

func (ps *policyService) GetAllDocuments(ctx context.Context) ([]*dto.PolicyDocumentResponse, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.PolicyDocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.PolicyDocumentResponse, 0, len(documents))
	for _, d := range documents {
		response = append(response, &dto.PolicyDocumentResponse{
			Id:        d.Id,
			Title:     d.Title,
			Country:   d.Country,
			Language:  d.Language,
			SourceURL: d.SourceURL,
			CreatedAt: d.CreatedAt,
		})
	}
	return response, nil
}

func (ps *policyService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("policy document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.PolicyEmbeddingRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.PolicyDocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}
