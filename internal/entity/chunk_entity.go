package entity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// RepoFile describes one scannable file inside a fetched repository.
type RepoFile struct {
	Path      string // relative to the repository root
	Size      int64
	Extension string
	Language  string
	IsBinary  bool
}

// Chunk is a bounded, positionally-addressed slice of a source file. Lines are
// 1-based and inclusive.
type Chunk struct {
	Id        string
	SessionId uuid.UUID
	FilePath  string
	Language  string
	Content   string
	LineStart int
	LineEnd   int
	Embedding []float32
}

// ChunkKey derives the deterministic identity of a chunk from its position, so
// re-indexing identical content upserts the same rows instead of duplicating
// them.
func ChunkKey(sessionId uuid.UUID, filePath string, lineStart, lineEnd int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%s:%d:%d", sessionId, filePath, lineStart, lineEnd)))
	return hex.EncodeToString(sum[:])
}

// ScoredChunk pairs a retrieved chunk with its similarity to the question.
type ScoredChunk struct {
	Chunk      *Chunk
	Similarity float64
}
