package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"maharaja-assistant-be/internal/dto"
	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/specification"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/embedding"
	"maharaja-assistant-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Chunking parameters for policy documents. 1500 chars is roughly 375
// tokens, well inside the embedding model's context.
const (
	policyChunkSize    = 1500
	policyChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService indexes policy documents into the vector store. Chunking
// and embedding run off the request path so document ingestion stays fast.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedPolicyDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // malformed messages never become valid, do not retry
		return
	}

	log.Printf("[INFO] Indexing policy document %s", payload.PolicyDocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.PolicyDocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load policy document %s: %v", payload.PolicyDocumentId, err)
		msg.Nack()
		return
	}
	if document == nil {
		log.Printf("[WARN] Policy document %s no longer exists", payload.PolicyDocumentId)
		msg.Ack()
		return
	}

	chunks := utils.SplitText(document.Content, policyChunkSize, policyChunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", document.Id, len(chunks))

	newEmbeddings := make([]*entity.PolicyEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskDocument)
		if err != nil {
			log.Printf("[ERROR] Embedding failed for chunk %d of document %s: %v", i, document.Id, err)
			msg.Nack()
			return
		}
		newEmbeddings = append(newEmbeddings, &entity.PolicyEmbedding{
			Id:               uuid.New(),
			PolicyDocumentId: document.Id,
			Chunk:            chunk,
			ChunkIndex:       i,
			Country:          document.Country,
			Language:         document.Language,
			SourceURL:        document.SourceURL,
			EmbeddingValue:   res.Values,
			CreatedAt:        time.Now(),
		})
	}

	// Replace the document's previous index atomically
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.PolicyEmbeddingRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		log.Printf("[ERROR] Failed to clear old embeddings for %s: %v", document.Id, err)
		msg.Nack()
		return
	}
	if err := uow.PolicyEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		log.Printf("[ERROR] Failed to store embeddings for %s: %v", document.Id, err)
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit embeddings for %s: %v", document.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Indexed %d chunks for policy document %s", len(newEmbeddings), document.Id)
	msg.Ack()
}
