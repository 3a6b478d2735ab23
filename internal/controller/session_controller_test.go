package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitsleuth-be/internal/config"
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/pkg/serverutils"
	"gitsleuth-be/internal/repository/memory"
	"gitsleuth-be/internal/service"
	"gitsleuth-be/pkg/embedding"
	"gitsleuth-be/pkg/llm"
	"gitsleuth-be/pkg/rag/confidence"
	"gitsleuth-be/pkg/rag/response"
	"gitsleuth-be/pkg/rag/search"
	"gitsleuth-be/pkg/repofs"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubEmbedder struct{}

func (stubEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}},
	}, nil
}

func (stubEmbedder) GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubLLM struct{}

func (stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "See [S1].", nil
}

func (stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "See [S1].", nil
}

// newTestApp wires the full HTTP surface against in-memory repositories and
// stubbed AI providers.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := service.NewPublisherService("TEST_EVENTS", pubSub)

	vectors := memory.NewVectorRepository()
	history := memory.NewQueryHistoryRepository()
	sessions := service.NewSessionService(
		memory.NewSessionRepository(time.Hour),
		vectors,
		history,
		publisher,
		nopLogger{},
	)

	indexingCfg := config.IndexingConfig{
		MaxFileSize:     1 << 20,
		MaxFilesPerRepo: 100,
		ChunkSize:       4096,
		AllowedExts:     []string{".go", ".md"},
		ExcludedDirs:    []string{".git"},
	}
	ragCfg := config.RagConfig{
		MaxContextChunks:    12,
		SimilarityThreshold: 0.15,
		HighScoreThreshold:  0.6,
		LowScoreMargin:      0.05,
	}

	indexing := service.NewIndexingService(
		sessions,
		repofs.NewDirFetcher(),
		stubEmbedder{},
		vectors,
		publisher,
		indexingCfg,
		nopLogger{},
	)
	queries := service.NewQueryService(
		sessions,
		search.NewRetriever(stubEmbedder{}, vectors, nopLogger{}),
		confidence.NewClassifier(ragCfg.HighScoreThreshold, ragCfg.SimilarityThreshold, ragCfg.LowScoreMargin),
		response.NewGenerator(stubLLM{}, nopLogger{}),
		history,
		publisher,
		ragCfg,
		nopLogger{},
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewSessionController(indexing, sessions).RegisterRoutes(app)
	NewQueryController(queries).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Zero(t, health.Sessions)
}

func TestIndexRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/index", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIndexRejectsMissingRepoURL(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/index", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusRejectsMalformedSessionId(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/status/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusUnknownSessionIs404(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/status/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQueryUnknownSessionIs404(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/query", dto.QueryRequest{
		SessionId: uuid.New(),
		Question:  "where is the entrypoint?",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIndexQueryDeleteRoundTrip(t *testing.T) {
	app := newTestApp(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "main.go"),
		[]byte("package main\n\nfunc main() {}\n"),
		0o644,
	))

	// Start indexing.
	resp := doJSON(t, app, http.MethodPost, "/index", dto.IndexRequest{RepoURL: root})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var indexRes dto.IndexResponse
	decodeBody(t, resp, &indexRes)
	require.NotEqual(t, uuid.Nil, indexRes.SessionId)
	assert.Equal(t, entity.SessionStatusIndexing, indexRes.Status)

	// Poll status until the run completes.
	statusPath := "/status/" + indexRes.SessionId.String()
	require.Eventually(t, func() bool {
		resp := doJSON(t, app, http.MethodGet, statusPath, nil)
		if resp.StatusCode != http.StatusOK {
			return false
		}
		var status dto.StatusResponse
		decodeBody(t, resp, &status)
		return status.Status == entity.SessionStatusReady
	}, 3*time.Second, 20*time.Millisecond)

	// Query the indexed session.
	resp = doJSON(t, app, http.MethodPost, "/query", dto.QueryRequest{
		SessionId: indexRes.SessionId,
		Question:  "where is the entrypoint?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var queryRes dto.QueryResponse
	decodeBody(t, resp, &queryRes)
	assert.Equal(t, "See [S1].", queryRes.Answer)
	require.NotEmpty(t, queryRes.Sources)
	assert.Equal(t, "main.go", queryRes.Sources[0].File)

	// History shows the exchange.
	resp = doJSON(t, app, http.MethodGet, "/session/"+indexRes.SessionId.String()+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var historyRes dto.QueryHistoryResponse
	decodeBody(t, resp, &historyRes)
	require.Len(t, historyRes.History, 1)
	assert.Equal(t, "where is the entrypoint?", historyRes.History[0].Question)

	// Delete and confirm the session is gone.
	resp = doJSON(t, app, http.MethodDelete, "/session/"+indexRes.SessionId.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, statusPath, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
