package bootstrap

import (
	"context"
	"log"

	"maharaja-assistant-be/internal/config"
	"maharaja-assistant-be/internal/controller"
	"maharaja-assistant-be/internal/pkg/logger"
	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/internal/repository/memory"
	"maharaja-assistant-be/internal/repository/redisstore"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/internal/service"
	"maharaja-assistant-be/pkg/embedding"
	"maharaja-assistant-be/pkg/flights"
	"maharaja-assistant-be/pkg/llm"
	"maharaja-assistant-be/pkg/llm/factory"
	pktNats "maharaja-assistant-be/pkg/nats"
	"maharaja-assistant-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	ChatbotController controller.IChatbotController
	PolicyController  controller.IPolicyController
	FlightController  controller.IFlightController

	// Background services, run by main
	ConsumerService service.IConsumerService

	Logger        logger.ILogger
	NatsPublisher *pktNats.Publisher // nil when NATS is disabled
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus for asynchronous policy indexing
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	embeddingProvider := newEmbeddingProvider(cfg)
	llmProvider := newLLMProvider(cfg)
	stateRepo := newSessionStateRepository(cfg)
	simulator := flights.NewSimulator(log.Default())

	// NATS analytics bus is optional: the assistant answers without it
	var natsPub *pktNats.Publisher
	if cfg.App.NatsEnabled {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
			natsPub = nil
		}
	}

	publisherService := service.NewPublisherService(cfg.Keys.EmbedPolicyTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.EmbedPolicyTopic, uowFactory, embeddingProvider)

	chatbotService := service.NewChatbotService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		stateRepo,
		simulator,
		natsPub,
		service.ChatbotConfig{
			StalenessWindow: cfg.Engine.StalenessWindow,
			FollowUpTokens:  cfg.Engine.FollowUpTokens,
			Search: search.Config{
				StrictThreshold:  cfg.Engine.StrictThreshold,
				RelaxedThreshold: cfg.Engine.RelaxedThreshold,
				TopK:             cfg.Engine.TopK,
				TopN:             cfg.Engine.TopN,
			},
			ComposeTimeout: cfg.Engine.ComposeTimeout,
			MaxReplyLength: cfg.Engine.MaxReplyLength,
		},
	)
	policyService := service.NewPolicyService(uowFactory, publisherService)
	flightService := service.NewFlightService(simulator)

	return &Container{
		ChatbotController: controller.NewChatbotController(chatbotService, sysLogger),
		PolicyController:  controller.NewPolicyController(policyService),
		FlightController:  controller.NewFlightController(flightService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
		NatsPublisher:     natsPub,
	}
}

func newEmbeddingProvider(cfg *config.Config) embedding.EmbeddingProvider {
	// ollama is the only wired provider; the switch stays for future backends
	switch cfg.Ai.EmbeddingProvider {
	default:
		log.Printf("[INFO] Using embedding provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}
}

func newLLMProvider(cfg *config.Config) llm.LLMProvider {
	provider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.LLMTimeout,
		llm.RetryConfig{
			MaxAttempts: cfg.Ai.RetryAttempts,
			Interval:    cfg.Ai.RetryInterval,
		},
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	return provider
}

func newSessionStateRepository(cfg *config.Config) contract.SessionStateRepository {
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("[FATAL] SESSION_STORE=redis but Redis is unreachable: %v", err)
		}
		log.Printf("[INFO] Using session store: REDIS")
		return redisstore.NewSessionStateRepository(rdb, cfg.Engine.SessionTTL)
	}

	log.Printf("[INFO] Using session store: MEMORY")
	return memory.NewSessionStateRepository(cfg.Engine.SessionTTL)
}
