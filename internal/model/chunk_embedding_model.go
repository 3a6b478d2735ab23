package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ChunkEmbedding struct {
	Id             string          `gorm:"type:char(40);primaryKey"` // sha1 of session/path/line range
	SessionId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	FilePath       string          `gorm:"type:text;not null"`
	Language       string          `gorm:"type:varchar(32)"`
	Content        string          `gorm:"type:text"`
	LineStart      int             `gorm:"not null"`
	LineEnd        int             `gorm:"not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
