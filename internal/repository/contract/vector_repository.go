package contract

import (
	"context"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
)

// VectorRepository stores chunk embeddings partitioned per session and serves
// nearest-neighbor search. Upserts are keyed on the deterministic chunk id so
// a re-run of the same ingestion is idempotent.
type VectorRepository interface {
	Upsert(ctx context.Context, chunks []*entity.Chunk) error

	// SearchSimilarWithScore returns up to limit chunks of the session whose
	// cosine similarity to the query embedding is at least threshold, ordered
	// by similarity descending.
	SearchSimilarWithScore(ctx context.Context, sessionId uuid.UUID, queryEmbedding []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error)

	CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error)

	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
