package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/mapper"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/internal/repository/contract"
	"gitsleuth-be/pkg/events"
)

type ISessionService interface {
	Create(ctx context.Context, repoURL string) (*entity.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Status(ctx context.Context, id uuid.UUID) (*dto.StatusResponse, error)
	List(ctx context.Context) (*dto.ListSessionsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteSessionResponse, error)
	Count(ctx context.Context) (int, error)

	// BeginRun claims the single ingestion slot of a session and returns the
	// run context, cancelled when the session is deleted.
	BeginRun(ctx context.Context, id uuid.UUID) (context.Context, error)
	FinishRun(id uuid.UUID)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress *entity.Progress) error
	MarkReady(ctx context.Context, id uuid.UUID, processedFiles, processedChunks int) error
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}

type sessionService struct {
	sessionRepo      contract.SessionRepository
	vectorRepo       contract.VectorRepository
	historyRepo      contract.QueryHistoryRepository
	publisherService IPublisherService
	mapper           *mapper.SessionMapper
	logger           logger.ILogger

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

func NewSessionService(
	sessionRepo contract.SessionRepository,
	vectorRepo contract.VectorRepository,
	historyRepo contract.QueryHistoryRepository,
	publisherService IPublisherService,
	logger logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionRepo:      sessionRepo,
		vectorRepo:       vectorRepo,
		historyRepo:      historyRepo,
		publisherService: publisherService,
		mapper:           mapper.NewSessionMapper(),
		logger:           logger,
		cancels:          make(map[uuid.UUID]context.CancelFunc),
	}
}

// validateRepoLocator rejects malformed locators before any session state is
// created. Accepted forms are http(s) URLs and filesystem paths.
func validateRepoLocator(repoURL string) error {
	trimmed := strings.TrimSpace(repoURL)
	if trimmed == "" {
		return apperrors.Validation("repo_url must not be empty")
	}
	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		scheme := strings.ToLower(trimmed[:idx])
		if scheme != "http" && scheme != "https" {
			return apperrors.Validation("unsupported repository locator scheme: " + scheme)
		}
	}
	return nil
}

func (s *sessionService) Create(ctx context.Context, repoURL string) (*entity.Session, error) {
	if err := validateRepoLocator(repoURL); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &entity.Session{
		Id:        uuid.New(),
		RepoURL:   strings.TrimSpace(repoURL),
		Status:    entity.SessionStatusIdle,
		Message:   "Session created",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session", "Session created", map[string]interface{}{
		"session_id": session.Id.String(),
		"repo_url":   session.RepoURL,
	})

	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	return s.sessionRepo.FindById(ctx, id)
}

func (s *sessionService) Status(ctx context.Context, id uuid.UUID) (*dto.StatusResponse, error) {
	session, err := s.sessionRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToStatusResponse(session), nil
}

func (s *sessionService) List(ctx context.Context) (*dto.ListSessionsResponse, error) {
	sessions, err := s.sessionRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToListResponse(sessions), nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteSessionResponse, error) {
	if _, err := s.sessionRepo.FindById(ctx, id); err != nil {
		return nil, err
	}

	// Stop any in-flight ingestion before tearing down its data. The run
	// observes the cancellation between steps and exits without marking the
	// session as failed.
	s.mu.Lock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()

	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := s.vectorRepo.DeleteBySessionId(ctx, id); err != nil {
		s.logger.Warn("session", "Failed to delete vector partition", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}
	if err := s.historyRepo.DeleteBySessionId(ctx, id); err != nil {
		s.logger.Warn("session", "Failed to delete query history", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}

	if err := s.publisherService.Publish(ctx, events.NewSessionDeleted(id)); err != nil {
		s.logger.Warn("session", "Failed to publish session deleted event", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}

	s.logger.Info("session", "Session deleted", map[string]interface{}{
		"session_id": id.String(),
	})

	return &dto.DeleteSessionResponse{Message: "Session deleted successfully"}, nil
}

func (s *sessionService) Count(ctx context.Context) (int, error) {
	return s.sessionRepo.Count(ctx)
}

func (s *sessionService) BeginRun(ctx context.Context, id uuid.UUID) (context.Context, error) {
	session, err := s.sessionRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.cancels[id]; running {
		return nil, apperrors.Conflict("indexing already in progress for this session")
	}
	if session.Status != entity.SessionStatusIdle {
		return nil, apperrors.Conflict("session is not in a startable state")
	}

	// The run context is deliberately detached from the request: the request
	// returns immediately while the pipeline keeps going.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancels[id] = cancel

	session.Status = entity.SessionStatusIndexing
	session.Message = "Indexing repository"
	session.Progress = &entity.Progress{Step: entity.StepScanningFiles}
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		cancel()
		delete(s.cancels, id)
		return nil, err
	}

	return runCtx, nil
}

func (s *sessionService) FinishRun(id uuid.UUID) {
	s.mu.Lock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()
}

// UpdateProgress merges a snapshot into the stored progress, keeping the
// step order and counters monotone. Stale snapshots never move anything
// backwards.
func (s *sessionService) UpdateProgress(ctx context.Context, id uuid.UUID, progress *entity.Progress) error {
	session, err := s.sessionRepo.FindById(ctx, id)
	if err != nil {
		return err
	}
	if session.Status != entity.SessionStatusIndexing {
		return nil
	}

	current := session.Progress
	if current == nil {
		current = &entity.Progress{Step: entity.StepScanningFiles}
	}

	merged := &entity.Progress{
		Step:            current.Step,
		ProcessedFiles:  maxInt(current.ProcessedFiles, progress.ProcessedFiles),
		TotalFiles:      maxInt(current.TotalFiles, progress.TotalFiles),
		ProcessedChunks: maxInt(current.ProcessedChunks, progress.ProcessedChunks),
		TotalChunks:     maxInt(current.TotalChunks, progress.TotalChunks),
	}
	if progress.Step.Rank() > current.Step.Rank() {
		merged.Step = progress.Step
	}
	if merged.TotalFiles > 0 && merged.ProcessedFiles > merged.TotalFiles {
		merged.ProcessedFiles = merged.TotalFiles
	}
	if merged.TotalChunks > 0 && merged.ProcessedChunks > merged.TotalChunks {
		merged.ProcessedChunks = merged.TotalChunks
	}

	session.Progress = merged
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	if err := s.publisherService.Publish(ctx, events.NewSessionProgress(id, merged)); err != nil {
		s.logger.Debug("session", "Failed to publish progress event", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}

	return nil
}

func (s *sessionService) MarkReady(ctx context.Context, id uuid.UUID, processedFiles, processedChunks int) error {
	session, err := s.sessionRepo.FindById(ctx, id)
	if err != nil {
		return err
	}
	if session.Status != entity.SessionStatusIndexing {
		return apperrors.Conflict("session is not indexing")
	}

	// Totals reported during the run never shrink: a skipped file lowers the
	// processed count, not the discovered total.
	fileTotal := processedFiles
	chunkTotal := processedChunks
	if session.Progress != nil {
		fileTotal = maxInt(fileTotal, session.Progress.TotalFiles)
		chunkTotal = maxInt(chunkTotal, session.Progress.TotalChunks)
	}

	session.Status = entity.SessionStatusReady
	session.Message = "Repository indexed successfully"
	session.TotalFiles = fileTotal
	session.TotalChunks = chunkTotal
	session.Progress = &entity.Progress{
		Step:            entity.StepComplete,
		ProcessedFiles:  processedFiles,
		TotalFiles:      fileTotal,
		ProcessedChunks: processedChunks,
		TotalChunks:     chunkTotal,
	}
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	if err := s.publisherService.Publish(ctx, events.NewSessionReady(id, fileTotal, chunkTotal)); err != nil {
		s.logger.Warn("session", "Failed to publish session ready event", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}

	return nil
}

func (s *sessionService) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	session, err := s.sessionRepo.FindById(ctx, id)
	if err != nil {
		return err
	}
	if session.Status != entity.SessionStatusIndexing {
		return nil
	}

	session.Status = entity.SessionStatusError
	session.ErrorMessage = message
	session.Message = "Indexing failed"
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	if err := s.publisherService.Publish(ctx, events.NewSessionFailed(id, message)); err != nil {
		s.logger.Warn("session", "Failed to publish session failed event", map[string]interface{}{
			"session_id": id.String(),
			"error":      err.Error(),
		})
	}

	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
