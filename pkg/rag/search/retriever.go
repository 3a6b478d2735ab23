package search

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/internal/repository/contract"
	"gitsleuth-be/pkg/embedding"
)

// Retriever handles vector search over a session's chunk index
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	vectorRepository  contract.VectorRepository
	logger            logger.ILogger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, vectorRepository contract.VectorRepository, logger logger.ILogger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		vectorRepository:  vectorRepository,
		logger:            logger,
	}
}

// Config encapsulates retrieval parameters
type Config struct {
	MaxContextChunks    int
	SimilarityThreshold float64
}

// Execute embeds the question and returns the top matching chunks of the
// session, ordered by similarity descending with ties broken by file path
// then line start so repeated queries see a stable order.
func (r *Retriever) Execute(ctx context.Context, sessionId uuid.UUID, question string, config Config) ([]*entity.ScoredChunk, error) {
	embeddingRes, err := r.embeddingProvider.Generate(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, apperrors.Upstream("embedding generation failed", err)
	}

	scored, err := r.vectorRepository.SearchSimilarWithScore(
		ctx,
		sessionId,
		embeddingRes.Embedding.Values,
		config.MaxContextChunks,
		config.SimilarityThreshold,
	)
	if err != nil {
		return nil, apperrors.Upstream("vector search failed", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		if scored[i].Chunk.FilePath != scored[j].Chunk.FilePath {
			return scored[i].Chunk.FilePath < scored[j].Chunk.FilePath
		}
		return scored[i].Chunk.LineStart < scored[j].Chunk.LineStart
	})

	if len(scored) > config.MaxContextChunks && config.MaxContextChunks > 0 {
		scored = scored[:config.MaxContextChunks]
	}

	r.logger.Debug("retriever", "Context retrieved", map[string]interface{}{
		"session_id": sessionId.String(),
		"results":    len(scored),
	})

	return scored, nil
}
