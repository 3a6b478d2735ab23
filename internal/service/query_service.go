package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/config"
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/mapper"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/internal/repository/contract"
	"gitsleuth-be/pkg/events"
	"gitsleuth-be/pkg/rag/confidence"
	"gitsleuth-be/pkg/rag/response"
	"gitsleuth-be/pkg/rag/search"
)

type IQueryService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	History(ctx context.Context, sessionId uuid.UUID) (*dto.QueryHistoryResponse, error)
}

type queryService struct {
	sessionService   ISessionService
	retriever        *search.Retriever
	classifier       *confidence.Classifier
	generator        *response.Generator
	historyRepo      contract.QueryHistoryRepository
	publisherService IPublisherService
	ragCfg           config.RagConfig
	mapper           *mapper.QueryMapper
	logger           logger.ILogger

	// appendLocks serializes history appends per session so the client-visible
	// log keeps insertion order.
	appendLocks sync.Map
}

func NewQueryService(
	sessionService ISessionService,
	retriever *search.Retriever,
	classifier *confidence.Classifier,
	generator *response.Generator,
	historyRepo contract.QueryHistoryRepository,
	publisherService IPublisherService,
	ragCfg config.RagConfig,
	logger logger.ILogger,
) IQueryService {
	return &queryService{
		sessionService:   sessionService,
		retriever:        retriever,
		classifier:       classifier,
		generator:        generator,
		historyRepo:      historyRepo,
		publisherService: publisherService,
		ragCfg:           ragCfg,
		mapper:           mapper.NewQueryMapper(),
		logger:           logger,
	}
}

func (s *queryService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	session, err := s.sessionService.Get(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusReady {
		return nil, apperrors.NotReady("session is not ready for queries (status: " + string(session.Status) + ")")
	}

	retrieved, err := s.retriever.Execute(ctx, req.SessionId, req.Question, search.Config{
		MaxContextChunks:    s.ragCfg.MaxContextChunks,
		SimilarityThreshold: s.ragCfg.SimilarityThreshold,
	})
	if err != nil {
		return nil, err
	}

	var (
		answer  string
		sources []entity.SourceReference
	)
	label := s.classifier.Classify(retrieved)

	if len(retrieved) == 0 {
		// No context clears the bar: answer without calling the model.
		answer = response.NotFoundAnswer
		sources = []entity.SourceReference{}
	} else {
		// The caller may already be gone after retrieval; skip the expensive
		// synthesis call in that case.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		answer, sources, err = s.generator.Generate(ctx, req.Question, retrieved)
		if err != nil {
			return nil, err
		}
	}

	record := &entity.QueryRecord{
		Id:         uuid.New(),
		SessionId:  req.SessionId,
		Question:   req.Question,
		Answer:     answer,
		Sources:    sources,
		Confidence: label,
		CreatedAt:  time.Now(),
	}

	if err := s.appendHistory(ctx, record); err != nil {
		s.logger.Warn("query", "Failed to append query history", map[string]interface{}{
			"session_id": req.SessionId.String(),
			"error":      err.Error(),
		})
	}

	if err := s.publisherService.Publish(ctx, events.NewQueryAnswered(req.SessionId, label, len(sources))); err != nil {
		s.logger.Debug("query", "Failed to publish query answered event", map[string]interface{}{
			"session_id": req.SessionId.String(),
			"error":      err.Error(),
		})
	}

	return s.mapper.ToQueryResponse(record), nil
}

func (s *queryService) History(ctx context.Context, sessionId uuid.UUID) (*dto.QueryHistoryResponse, error) {
	if _, err := s.sessionService.Get(ctx, sessionId); err != nil {
		return nil, err
	}
	records, err := s.historyRepo.FindBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToHistoryResponse(sessionId, records), nil
}

func (s *queryService) appendHistory(ctx context.Context, record *entity.QueryRecord) error {
	lock, _ := s.appendLocks.LoadOrStore(record.SessionId, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return s.historyRepo.Append(ctx, record)
}
