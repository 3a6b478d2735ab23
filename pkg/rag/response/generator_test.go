package response

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"gitsleuth-be/internal/entity"
	"gitsleuth-be/pkg/llm"
)

type stubLLM struct {
	answer string
	calls  int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	return s.answer, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	return s.answer, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func chunksFixture() []*entity.ScoredChunk {
	return []*entity.ScoredChunk{
		{Chunk: &entity.Chunk{FilePath: "main.go", Content: "package main", LineStart: 1, LineEnd: 10}, Similarity: 0.8},
		{Chunk: &entity.Chunk{FilePath: "handler.go", Content: "func handle() {}", LineStart: 5, LineEnd: 20}, Similarity: 0.6},
		{Chunk: &entity.Chunk{FilePath: "config.go", Content: "type Config struct{}", LineStart: 1, LineEnd: 8}, Similarity: 0.5},
	}
}

func TestGenerateKeepsOnlyCitedSources(t *testing.T) {
	g := NewGenerator(&stubLLM{answer: "The entrypoint is main [S1], configured via [S3]."}, nopLogger{})

	answer, sources, err := g.Generate(context.Background(), "where does it start?", chunksFixture())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer == "" {
		t.Fatal("empty answer")
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].File != "main.go" || sources[1].File != "config.go" {
		t.Errorf("unexpected source order: %s, %s", sources[0].File, sources[1].File)
	}
}

func TestGenerateFallsBackToAllSourcesWithoutCitations(t *testing.T) {
	g := NewGenerator(&stubLLM{answer: "It starts in the main package."}, nopLogger{})

	_, sources, err := g.Generate(context.Background(), "where does it start?", chunksFixture())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("sources = %d, want all 3", len(sources))
	}
}

func TestGenerateIgnoresOutOfRangeAndDuplicateCitations(t *testing.T) {
	g := NewGenerator(&stubLLM{answer: "[S2] then [S2] again, and [S9] does not exist."}, nopLogger{})

	_, sources, err := g.Generate(context.Background(), "q", chunksFixture())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(sources))
	}
	if sources[0].File != "handler.go" {
		t.Errorf("source = %s, want handler.go", sources[0].File)
	}
}

func TestSourceReferencesTruncatesSnippets(t *testing.T) {
	long := strings.Repeat("x", 500)
	refs := SourceReferences([]*entity.ScoredChunk{
		{Chunk: &entity.Chunk{FilePath: "big.go", Content: long, LineStart: 1, LineEnd: 40}},
	})
	if len(refs) != 1 {
		t.Fatalf("refs = %d, want 1", len(refs))
	}
	if len(refs[0].Snippet) != snippetMaxLen+3 {
		t.Errorf("snippet length = %d, want %d", len(refs[0].Snippet), snippetMaxLen+3)
	}
	if !strings.HasSuffix(refs[0].Snippet, "...") {
		t.Error("truncated snippet should end with ellipsis")
	}
}

func TestSourceReferencesTruncatesOnRuneBoundary(t *testing.T) {
	// A two-byte rune straddles the truncation point.
	content := strings.Repeat("x", snippetMaxLen-1) + strings.Repeat("é", 10)
	refs := SourceReferences([]*entity.ScoredChunk{
		{Chunk: &entity.Chunk{FilePath: "unicode.go", Content: content, LineStart: 1, LineEnd: 3}},
	})
	if len(refs) != 1 {
		t.Fatalf("refs = %d, want 1", len(refs))
	}
	if !utf8.ValidString(refs[0].Snippet) {
		t.Errorf("snippet is not valid UTF-8: %q", refs[0].Snippet)
	}
	if !strings.HasSuffix(refs[0].Snippet, "...") {
		t.Error("truncated snippet should end with ellipsis")
	}
}
