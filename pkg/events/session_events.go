package events

import (
	"time"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
)

const (
	TypeSessionIndexingStarted = "SESSION_INDEXING_STARTED"
	TypeSessionProgress        = "SESSION_PROGRESS"
	TypeSessionReady           = "SESSION_READY"
	TypeSessionFailed          = "SESSION_FAILED"
	TypeSessionDeleted         = "SESSION_DELETED"
	TypeQueryAnswered          = "QUERY_ANSWERED"
)

func NewSessionIndexingStarted(sessionId uuid.UUID, repoURL string) Event {
	return BaseEvent{
		Type: TypeSessionIndexingStarted,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"repo_url":   repoURL,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionProgress(sessionId uuid.UUID, progress *entity.Progress) Event {
	return BaseEvent{
		Type: TypeSessionProgress,
		Data: map[string]interface{}{
			"session_id":       sessionId.String(),
			"step":             string(progress.Step),
			"processed_files":  progress.ProcessedFiles,
			"total_files":      progress.TotalFiles,
			"processed_chunks": progress.ProcessedChunks,
			"total_chunks":     progress.TotalChunks,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionReady(sessionId uuid.UUID, totalFiles, totalChunks int) Event {
	return BaseEvent{
		Type: TypeSessionReady,
		Data: map[string]interface{}{
			"session_id":   sessionId.String(),
			"total_files":  totalFiles,
			"total_chunks": totalChunks,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionFailed(sessionId uuid.UUID, errorMessage string) Event {
	return BaseEvent{
		Type: TypeSessionFailed,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      errorMessage,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionDeleted(sessionId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeSessionDeleted,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewQueryAnswered(sessionId uuid.UUID, confidence entity.Confidence, sourceCount int) Event {
	return BaseEvent{
		Type: TypeQueryAnswered,
		Data: map[string]interface{}{
			"session_id":   sessionId.String(),
			"confidence":   string(confidence),
			"source_count": sourceCount,
		},
		OccurredAt: time.Now(),
	}
}
