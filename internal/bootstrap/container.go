package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"gitsleuth-be/internal/config"
	"gitsleuth-be/internal/controller"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/internal/repository/contract"
	"gitsleuth-be/internal/repository/implementation"
	"gitsleuth-be/internal/repository/memory"
	"gitsleuth-be/internal/service"
	"gitsleuth-be/pkg/embedding"
	"gitsleuth-be/pkg/llm/factory"
	pktNats "gitsleuth-be/pkg/nats"
	"gitsleuth-be/pkg/rag/confidence"
	"gitsleuth-be/pkg/rag/response"
	"gitsleuth-be/pkg/rag/search"
	"gitsleuth-be/pkg/repofs"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	QueryController   controller.IQueryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// NatsPublisher is exposed so main.go can close the connection on exit.
	NatsPublisher *pktNats.Publisher
}

// NewContainer wires the whole application. db may be nil, in which case the
// vector index and query history live in memory.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Repositories
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLHours) * time.Hour)

	var vectorRepo contract.VectorRepository
	var historyRepo contract.QueryHistoryRepository
	if db != nil {
		vectorRepo = implementation.NewVectorRepository(db)
		historyRepo = implementation.NewQueryHistoryRepository(db)
		log.Printf("[INFO] Using Postgres/pgvector storage")
	} else {
		vectorRepo = memory.NewVectorRepository()
		historyRepo = memory.NewQueryHistoryRepository()
		log.Printf("[INFO] Using in-memory storage")
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Eventing
	publisherService := service.NewPublisherService(cfg.Keys.EventTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EventTopic,
		natsPub,
		sysLogger,
	)

	// Core Services
	sessionService := service.NewSessionService(
		sessionRepo,
		vectorRepo,
		historyRepo,
		publisherService,
		sysLogger,
	)

	indexingService := service.NewIndexingService(
		sessionService,
		repofs.NewDirFetcher(),
		embeddingProvider,
		vectorRepo,
		publisherService,
		cfg.Indexing,
		sysLogger,
	)

	retriever := search.NewRetriever(embeddingProvider, vectorRepo, sysLogger)
	classifier := confidence.NewClassifier(
		cfg.Rag.HighScoreThreshold,
		cfg.Rag.SimilarityThreshold,
		cfg.Rag.LowScoreMargin,
	)
	generator := response.NewGenerator(llmProvider, sysLogger)

	queryService := service.NewQueryService(
		sessionService,
		retriever,
		classifier,
		generator,
		historyRepo,
		publisherService,
		cfg.Rag,
		sysLogger,
	)

	return &Container{
		SessionController: controller.NewSessionController(indexingService, sessionService),
		QueryController:   controller.NewQueryController(queryService),
		ConsumerService:   consumerService,
		NatsPublisher:     natsPub,
	}
}
