package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/repository/contract"
)

// VectorRepository is the in-memory vector index used when no Postgres
// connection is configured. Partitions are plain maps keyed by chunk id, so
// upserting the same deterministic id twice overwrites instead of duplicating.
type VectorRepository struct {
	mu         sync.RWMutex
	partitions map[uuid.UUID]map[string]*entity.Chunk
}

func NewVectorRepository() *VectorRepository {
	return &VectorRepository{
		partitions: make(map[uuid.UUID]map[string]*entity.Chunk),
	}
}

var _ contract.VectorRepository = &VectorRepository{}

func (r *VectorRepository) Upsert(ctx context.Context, chunks []*entity.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, chunk := range chunks {
		partition, ok := r.partitions[chunk.SessionId]
		if !ok {
			partition = make(map[string]*entity.Chunk)
			r.partitions[chunk.SessionId] = partition
		}
		c := *chunk
		partition[chunk.Id] = &c
	}
	return nil
}

func (r *VectorRepository) SearchSimilarWithScore(ctx context.Context, sessionId uuid.UUID, queryEmbedding []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	partition := r.partitions[sessionId]

	var results []*entity.ScoredChunk
	for _, chunk := range partition {
		score := cosineSimilarity(queryEmbedding, chunk.Embedding)
		if score < threshold {
			continue
		}
		c := *chunk
		results = append(results, &entity.ScoredChunk{Chunk: &c, Similarity: score})
	}

	// Similarity descending, ties broken by file path then line for stable,
	// reproducible output.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].Chunk.FilePath != results[j].Chunk.FilePath {
			return results[i].Chunk.FilePath < results[j].Chunk.FilePath
		}
		return results[i].Chunk.LineStart < results[j].Chunk.LineStart
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *VectorRepository) CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.partitions[sessionId])), nil
}

func (r *VectorRepository) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.partitions, sessionId)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
