package entity

import (
	"time"

	"github.com/google/uuid"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SourceReference points at the file region an answer was grounded in.
type SourceReference struct {
	File      string `json:"file"`
	Snippet   string `json:"snippet"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

// QueryRecord is one question/answer exchange. Records are immutable once
// created and appended to the owning session's history in insertion order.
type QueryRecord struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	Question   string
	Answer     string
	Sources    []SourceReference
	Confidence Confidence
	CreatedAt  time.Time
}
