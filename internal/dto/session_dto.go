package dto

import (
	"time"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
)

type IndexRequest struct {
	RepoURL string `json:"repo_url" validate:"required"`
}

type IndexResponse struct {
	Message   string               `json:"message"`
	SessionId uuid.UUID            `json:"session_id"`
	Status    entity.SessionStatus `json:"status"`
}

type ProgressDTO struct {
	Step            entity.IngestStep `json:"step"`
	ProcessedFiles  int               `json:"processed_files"`
	TotalFiles      int               `json:"total_files"`
	ProcessedChunks int               `json:"processed_chunks"`
	TotalChunks     int               `json:"total_chunks"`
}

type StatusResponse struct {
	Status   entity.SessionStatus `json:"status"`
	Message  string               `json:"message"`
	Progress *ProgressDTO         `json:"progress,omitempty"`
}

type DeleteSessionResponse struct {
	Message string `json:"message"`
}

type SessionSummary struct {
	Id          uuid.UUID            `json:"id"`
	RepoURL     string               `json:"repo_url"`
	Status      entity.SessionStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	TotalFiles  int                  `json:"total_files"`
	TotalChunks int                  `json:"total_chunks"`
}

type ListSessionsResponse struct {
	TotalSessions   int              `json:"total_sessions"`
	StatusBreakdown map[string]int   `json:"status_breakdown"`
	Sessions        []SessionSummary `json:"sessions"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
