package dto

import (
	"time"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
)

type QueryRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Question  string    `json:"question" validate:"required,min=1"`
}

type SourceReferenceDTO struct {
	File      string `json:"file"`
	Snippet   string `json:"snippet"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

type QueryResponse struct {
	Answer     string               `json:"answer"`
	Sources    []SourceReferenceDTO `json:"sources"`
	Confidence entity.Confidence    `json:"confidence,omitempty"`
}

type QueryHistoryItem struct {
	Id         uuid.UUID            `json:"id"`
	Question   string               `json:"question"`
	Answer     string               `json:"answer"`
	Sources    []SourceReferenceDTO `json:"sources"`
	Confidence entity.Confidence    `json:"confidence,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

type QueryHistoryResponse struct {
	SessionId uuid.UUID          `json:"session_id"`
	History   []QueryHistoryItem `json:"history"`
}
