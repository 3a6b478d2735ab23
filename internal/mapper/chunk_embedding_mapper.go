package mapper

import (
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToEntity(e *model.ChunkEmbedding) *entity.Chunk {
	if e == nil {
		return nil
	}
	return &entity.Chunk{
		Id:        e.Id,
		SessionId: e.SessionId,
		FilePath:  e.FilePath,
		Language:  e.Language,
		Content:   e.Content,
		LineStart: e.LineStart,
		LineEnd:   e.LineEnd,
		Embedding: e.EmbeddingValue.Slice(),
	}
}

func (m *ChunkEmbeddingMapper) ToModel(e *entity.Chunk) *model.ChunkEmbedding {
	if e == nil {
		return nil
	}
	return &model.ChunkEmbedding{
		Id:             e.Id,
		SessionId:      e.SessionId,
		FilePath:       e.FilePath,
		Language:       e.Language,
		Content:        e.Content,
		LineStart:      e.LineStart,
		LineEnd:        e.LineEnd,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
	}
}

func (m *ChunkEmbeddingMapper) ToModels(chunks []*entity.Chunk) []*model.ChunkEmbedding {
	models := make([]*model.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
