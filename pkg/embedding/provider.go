package embedding

import "context"

// Task types hint providers at the asymmetry between indexed documents and
// search queries. Providers that do not distinguish ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)

	// GenerateBatch embeds texts in order. The result has exactly one vector
	// per input text.
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}
