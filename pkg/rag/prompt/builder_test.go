package prompt

import (
	"strings"
	"testing"

	"gitsleuth-be/internal/entity"
)

func TestBuildLabelsEveryChunk(t *testing.T) {
	chunks := []*entity.ScoredChunk{
		{Chunk: &entity.Chunk{FilePath: "a.go", Language: "go", Content: "package a", LineStart: 1, LineEnd: 3}, Similarity: 0.9},
		{Chunk: &entity.Chunk{FilePath: "b.py", Language: "python", Content: "import os", LineStart: 10, LineEnd: 12}, Similarity: 0.4},
	}

	out := NewGroundedBuilder("how does it work?", chunks).Build()

	for _, want := range []string{
		"[S1] a.go (lines 1-3",
		"[S2] b.py (lines 10-12",
		"```go",
		"```python",
		"how does it work?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
