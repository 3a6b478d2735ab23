package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/config"
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/internal/repository/contract"
	"gitsleuth-be/pkg/chunker"
	"gitsleuth-be/pkg/embedding"
	"gitsleuth-be/pkg/events"
	"gitsleuth-be/pkg/repofs"
)

const (
	embedBatchSize = 10
	storeBatchSize = 100
)

type IIndexingService interface {
	Index(ctx context.Context, req *dto.IndexRequest) (*dto.IndexResponse, error)
}

type indexingService struct {
	sessionService    ISessionService
	fetcher           repofs.Fetcher
	scanner           *repofs.Scanner
	embeddingProvider embedding.EmbeddingProvider
	vectorRepo        contract.VectorRepository
	publisherService  IPublisherService
	indexingCfg       config.IndexingConfig
	logger            logger.ILogger
}

func NewIndexingService(
	sessionService ISessionService,
	fetcher repofs.Fetcher,
	embeddingProvider embedding.EmbeddingProvider,
	vectorRepo contract.VectorRepository,
	publisherService IPublisherService,
	indexingCfg config.IndexingConfig,
	logger logger.ILogger,
) IIndexingService {
	return &indexingService{
		sessionService:    sessionService,
		fetcher:           fetcher,
		scanner: repofs.NewScanner(repofs.Options{
			MaxFileSize:     indexingCfg.MaxFileSize,
			MaxFilesPerRepo: indexingCfg.MaxFilesPerRepo,
			AllowedExts:     indexingCfg.AllowedExts,
			ExcludedDirs:    indexingCfg.ExcludedDirs,
		}),
		embeddingProvider: embeddingProvider,
		vectorRepo:        vectorRepo,
		publisherService:  publisherService,
		indexingCfg:       indexingCfg,
		logger:            logger,
	}
}

// Index creates a fresh session for the repository and starts its ingestion
// run. The call returns as soon as the run is claimed; progress is observable
// through the status endpoint.
func (s *indexingService) Index(ctx context.Context, req *dto.IndexRequest) (*dto.IndexResponse, error) {
	session, err := s.sessionService.Create(ctx, req.RepoURL)
	if err != nil {
		return nil, err
	}

	runCtx, err := s.sessionService.BeginRun(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, events.NewSessionIndexingStarted(session.Id, session.RepoURL)); err != nil {
		s.logger.Warn("indexing", "Failed to publish indexing started event", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}

	go s.run(runCtx, session.Id, session.RepoURL)

	return &dto.IndexResponse{
		Message:   "Indexing started",
		SessionId: session.Id,
		Status:    entity.SessionStatusIndexing,
	}, nil
}

// run executes the five-step pipeline. Cancellation is observed between
// steps: a deleted session stops the run without marking it as failed.
func (s *indexingService) run(runCtx context.Context, sessionId uuid.UUID, repoURL string) {
	defer s.sessionService.FinishRun(sessionId)

	// State updates use a background context so a final save is not cut off
	// by the run context being cancelled mid-write.
	stateCtx := context.Background()

	root, cleanup, err := s.fetcher.Fetch(runCtx, repoURL)
	if err != nil {
		s.fail(stateCtx, sessionId, "failed to fetch repository", err)
		return
	}
	defer cleanup()

	if s.cancelled(runCtx, sessionId) {
		return
	}

	// Step 1: scan the working tree.
	scan, err := s.scanner.Scan(root)
	if err != nil {
		s.fail(stateCtx, sessionId, "failed to scan repository", err)
		return
	}
	s.progress(stateCtx, sessionId, &entity.Progress{
		Step:       entity.StepScanningFiles,
		TotalFiles: len(scan.Files),
	})
	s.logger.Info("indexing", "Repository scanned", map[string]interface{}{
		"session_id": sessionId.String(),
		"files":      len(scan.Files),
		"skipped":    scan.SkippedFiles,
		"dropped":    scan.DroppedFiles,
	})

	if s.cancelled(runCtx, sessionId) {
		return
	}

	// Step 2: read and chunk each file. A file that fails to read is logged
	// and skipped; it never fails the whole run.
	var chunks []entity.Chunk
	processedFiles := 0
	for _, file := range scan.Files {
		if s.cancelled(runCtx, sessionId) {
			return
		}

		content, err := s.scanner.ReadFile(root, file.Path)
		if err != nil {
			s.logger.Warn("indexing", "Failed to read file, skipping", map[string]interface{}{
				"session_id": sessionId.String(),
				"file":       file.Path,
				"error":      err.Error(),
			})
			continue
		}

		fileChunks := chunker.Split(file.Path, content, s.indexingCfg.ChunkSize, s.indexingCfg.ChunkOverlap)
		for i := range fileChunks {
			fileChunks[i].Id = entity.ChunkKey(sessionId, file.Path, fileChunks[i].LineStart, fileChunks[i].LineEnd)
			fileChunks[i].SessionId = sessionId
			fileChunks[i].Language = file.Language
		}
		chunks = append(chunks, fileChunks...)

		processedFiles++
		s.progress(stateCtx, sessionId, &entity.Progress{
			Step:           entity.StepProcessingFiles,
			ProcessedFiles: processedFiles,
			TotalFiles:     len(scan.Files),
		})
	}
	s.progress(stateCtx, sessionId, &entity.Progress{
		Step:        entity.StepProcessingFiles,
		TotalChunks: len(chunks),
	})

	// An empty index would answer every query with the not-found fallback;
	// surface that as a failed run instead of a ready session.
	if len(chunks) == 0 {
		s.fail(stateCtx, sessionId, "no valid chunks found to process", errors.New("repository contains no indexable files"))
		return
	}

	if s.cancelled(runCtx, sessionId) {
		return
	}

	// Step 3: embed chunk contents in batches.
	for start := 0; start < len(chunks); start += embedBatchSize {
		if s.cancelled(runCtx, sessionId) {
			return
		}

		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = chunks[i].Content
		}

		vectors, err := s.embeddingProvider.GenerateBatch(runCtx, texts, embedding.TaskRetrievalDocument)
		if err != nil {
			s.fail(stateCtx, sessionId, "embedding generation failed", err)
			return
		}
		for i := start; i < end; i++ {
			chunks[i].Embedding = vectors[i-start]
		}

		s.progress(stateCtx, sessionId, &entity.Progress{
			Step:            entity.StepGeneratingEmbeddings,
			ProcessedChunks: end,
			TotalChunks:     len(chunks),
		})
	}

	if s.cancelled(runCtx, sessionId) {
		return
	}

	// Step 4: upsert vectors. Deterministic chunk ids make a re-run after a
	// crash here overwrite instead of half-duplicating the index.
	s.progress(stateCtx, sessionId, &entity.Progress{Step: entity.StepStoringVectors})
	for start := 0; start < len(chunks); start += storeBatchSize {
		if s.cancelled(runCtx, sessionId) {
			return
		}

		end := start + storeBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := make([]*entity.Chunk, end-start)
		for i := start; i < end; i++ {
			batch[i-start] = &chunks[i]
		}
		if err := s.vectorRepo.Upsert(runCtx, batch); err != nil {
			s.fail(stateCtx, sessionId, "vector store write failed", err)
			return
		}
	}

	if s.cancelled(runCtx, sessionId) {
		return
	}

	// Step 5: complete.
	if err := s.sessionService.MarkReady(stateCtx, sessionId, processedFiles, len(chunks)); err != nil {
		s.logger.Warn("indexing", "Failed to mark session ready", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return
	}

	s.logger.Info("indexing", "Indexing complete", map[string]interface{}{
		"session_id": sessionId.String(),
		"files":      processedFiles,
		"chunks":     len(chunks),
	})
}

func (s *indexingService) cancelled(runCtx context.Context, sessionId uuid.UUID) bool {
	if runCtx.Err() == nil {
		return false
	}
	s.logger.Info("indexing", "Ingestion run cancelled", map[string]interface{}{
		"session_id": sessionId.String(),
	})
	return true
}

func (s *indexingService) progress(ctx context.Context, sessionId uuid.UUID, p *entity.Progress) {
	if err := s.sessionService.UpdateProgress(ctx, sessionId, p); err != nil {
		if kind, ok := apperrors.KindOf(err); ok && kind == apperrors.KindNotFound {
			return
		}
		s.logger.Debug("indexing", "Progress update failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}

func (s *indexingService) fail(ctx context.Context, sessionId uuid.UUID, message string, err error) {
	s.logger.Error("indexing", "Ingestion run failed", map[string]interface{}{
		"session_id": sessionId.String(),
		"reason":     message,
		"error":      err.Error(),
	})
	wrapped := fmt.Sprintf("%s: %v", message, err)
	if markErr := s.sessionService.MarkError(ctx, sessionId, wrapped); markErr != nil {
		s.logger.Warn("indexing", "Failed to mark session as errored", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      markErr.Error(),
		})
	}
}
