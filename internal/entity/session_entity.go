package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusIdle     SessionStatus = "idle"
	SessionStatusIndexing SessionStatus = "indexing"
	SessionStatusReady    SessionStatus = "ready"
	SessionStatusError    SessionStatus = "error"
)

// IngestStep is the named phase of an ingestion run. Steps are ordered and a
// run only ever moves forward through them.
type IngestStep string

const (
	StepScanningFiles        IngestStep = "scanning_files"
	StepProcessingFiles      IngestStep = "processing_files"
	StepGeneratingEmbeddings IngestStep = "generating_embeddings"
	StepStoringVectors       IngestStep = "storing_vectors"
	StepComplete             IngestStep = "complete"
)

var stepRank = map[IngestStep]int{
	StepScanningFiles:        0,
	StepProcessingFiles:      1,
	StepGeneratingEmbeddings: 2,
	StepStoringVectors:       3,
	StepComplete:             4,
}

// Rank returns the position of the step in the run order. Unknown steps rank
// below every valid one.
func (s IngestStep) Rank() int {
	if r, ok := stepRank[s]; ok {
		return r
	}
	return -1
}

// Progress is a closed snapshot of an ingestion run. processed never exceeds
// total, and totals never shrink once set.
type Progress struct {
	Step            IngestStep `json:"step"`
	ProcessedFiles  int        `json:"processed_files"`
	TotalFiles      int        `json:"total_files"`
	ProcessedChunks int        `json:"processed_chunks"`
	TotalChunks     int        `json:"total_chunks"`
}

// Session is the unit of isolation for one indexed repository and its query
// history. It is owned by the session service; other components hold copies.
type Session struct {
	Id           uuid.UUID
	RepoURL      string
	Status       SessionStatus
	Progress     *Progress
	ErrorMessage string
	Message      string
	TotalFiles   int
	TotalChunks  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
