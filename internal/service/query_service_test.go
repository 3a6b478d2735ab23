package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/config"
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/repository/memory"
	"gitsleuth-be/pkg/rag/confidence"
	"gitsleuth-be/pkg/rag/response"
	"gitsleuth-be/pkg/rag/search"
)

func testRagConfig() config.RagConfig {
	return config.RagConfig{
		MaxContextChunks:    12,
		SimilarityThreshold: 0.15,
		HighScoreThreshold:  0.6,
		LowScoreMargin:      0.05,
	}
}

type queryFixture struct {
	sessions ISessionService
	queries  IQueryService
	vectors  *memory.VectorRepository
	embedder *stubEmbedder
	llm      *stubLLM
}

func newQueryFixture(t *testing.T, ragCfg config.RagConfig) *queryFixture {
	t.Helper()
	vectors := memory.NewVectorRepository()
	history := memory.NewQueryHistoryRepository()
	publisher := newTestPublisher()
	sessions := NewSessionService(
		memory.NewSessionRepository(time.Hour),
		vectors,
		history,
		publisher,
		nopLogger{},
	)
	embedder := &stubEmbedder{}
	llmStub := &stubLLM{answer: "The entrypoint is defined in [S1]."}
	queries := NewQueryService(
		sessions,
		search.NewRetriever(embedder, vectors, nopLogger{}),
		confidence.NewClassifier(ragCfg.HighScoreThreshold, ragCfg.SimilarityThreshold, ragCfg.LowScoreMargin),
		response.NewGenerator(llmStub, nopLogger{}),
		history,
		publisher,
		ragCfg,
		nopLogger{},
	)
	return &queryFixture{sessions: sessions, queries: queries, vectors: vectors, embedder: embedder, llm: llmStub}
}

// readySession creates a session, walks it through an indexing run, and seeds
// its vector partition with the given chunks.
func (f *queryFixture) readySession(t *testing.T, chunks []*entity.Chunk) uuid.UUID {
	t.Helper()
	ctx := t.Context()
	session, err := f.sessions.Create(ctx, "https://github.com/example/repo")
	require.NoError(t, err)
	_, err = f.sessions.BeginRun(ctx, session.Id)
	require.NoError(t, err)

	for _, chunk := range chunks {
		chunk.SessionId = session.Id
		chunk.Id = entity.ChunkKey(session.Id, chunk.FilePath, chunk.LineStart, chunk.LineEnd)
	}
	require.NoError(t, f.vectors.Upsert(ctx, chunks))
	require.NoError(t, f.sessions.MarkReady(ctx, session.Id, 1, len(chunks)))
	f.sessions.FinishRun(session.Id)
	return session.Id
}

func seedChunks() []*entity.Chunk {
	return []*entity.Chunk{
		{
			FilePath:  "cmd/app/main.go",
			Language:  "go",
			Content:   "package main\n\nfunc main() { run() }\n",
			LineStart: 1,
			LineEnd:   3,
			Embedding: []float32{1, 0}, // aligned with the stub query vector
		},
		{
			FilePath:  "internal/run.go",
			Language:  "go",
			Content:   "package internal\n\nfunc run() {}\n",
			LineStart: 1,
			LineEnd:   3,
			Embedding: []float32{0.6, 0.8},
		},
		{
			FilePath:  "docs/unrelated.md",
			Language:  "markdown",
			Content:   "# changelog\n",
			LineStart: 1,
			LineEnd:   1,
			Embedding: []float32{0, 1},
		},
	}
}

func TestQueryRejectsSessionThatIsNotReady(t *testing.T) {
	f := newQueryFixture(t, testRagConfig())
	ctx := t.Context()

	session, err := f.sessions.Create(ctx, "https://github.com/example/repo")
	require.NoError(t, err)

	_, err = f.queries.Query(ctx, &dto.QueryRequest{SessionId: session.Id, Question: "what does main do?"})
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotReady, kind)
	assert.Zero(t, f.llm.calls)
}

func TestQueryUnknownSessionIsNotFound(t *testing.T) {
	f := newQueryFixture(t, testRagConfig())

	_, err := f.queries.Query(t.Context(), &dto.QueryRequest{SessionId: uuid.New(), Question: "anything"})
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotFound, kind)
}

func TestQueryAnswersWithCitedSources(t *testing.T) {
	f := newQueryFixture(t, testRagConfig())
	sessionId := f.readySession(t, seedChunks())

	resp, err := f.queries.Query(t.Context(), &dto.QueryRequest{
		SessionId: sessionId,
		Question:  "where is the entrypoint?",
	})
	require.NoError(t, err)

	assert.Equal(t, "The entrypoint is defined in [S1].", resp.Answer)
	assert.Equal(t, entity.ConfidenceHigh, resp.Confidence)
	require.Len(t, resp.Sources, 1, "only the cited chunk is attributed")
	assert.Equal(t, "cmd/app/main.go", resp.Sources[0].File)
	assert.Equal(t, 1, resp.Sources[0].LineStart)
	assert.Equal(t, 1, f.llm.calls)
}

func TestQueryWithoutRelevantContextSkipsTheModel(t *testing.T) {
	ragCfg := testRagConfig()
	ragCfg.SimilarityThreshold = 1.5 // no chunk can clear this
	f := newQueryFixture(t, ragCfg)
	sessionId := f.readySession(t, seedChunks())

	resp, err := f.queries.Query(t.Context(), &dto.QueryRequest{
		SessionId: sessionId,
		Question:  "what is the meaning of life?",
	})
	require.NoError(t, err)

	assert.Equal(t, response.NotFoundAnswer, resp.Answer)
	assert.Equal(t, entity.ConfidenceLow, resp.Confidence)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, f.llm.calls, "synthesis must not run without context")
}

func TestQueryHistoryKeepsInsertionOrder(t *testing.T) {
	f := newQueryFixture(t, testRagConfig())
	sessionId := f.readySession(t, seedChunks())
	ctx := t.Context()

	questions := []string{"first question", "second question", "third question"}
	for _, q := range questions {
		_, err := f.queries.Query(ctx, &dto.QueryRequest{SessionId: sessionId, Question: q})
		require.NoError(t, err)
	}

	history, err := f.queries.History(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, sessionId, history.SessionId)
	require.Len(t, history.History, 3)
	for i, item := range history.History {
		assert.Equal(t, questions[i], item.Question)
		assert.NotEmpty(t, item.Answer)
	}
}

func TestQueryHistoryUnknownSessionIsNotFound(t *testing.T) {
	f := newQueryFixture(t, testRagConfig())

	_, err := f.queries.History(t.Context(), uuid.New())
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotFound, kind)
}
