package response

import (
	"context"
	"regexp"
	"strconv"
	"unicode/utf8"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/entity"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/pkg/llm"
	"gitsleuth-be/pkg/rag/prompt"
)

// NotFoundAnswer is returned without an LLM call when retrieval comes back
// empty.
const NotFoundAnswer = "I couldn't find any relevant code context to answer your question. The repository might not contain information related to your query, or the indexing might not have captured the relevant files."

const snippetMaxLen = 200

var citationPattern = regexp.MustCompile(`\[S(\d+)\]`)

// Generator turns retrieved chunks plus a question into a grounded answer
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, logger logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate synthesizes an answer from the bounded context and reports which
// chunks the model cited. When the model cites nothing recognizable, every
// supplied chunk counts as grounding.
func (g *Generator) Generate(ctx context.Context, question string, chunks []*entity.ScoredChunk) (string, []entity.SourceReference, error) {
	promptText := prompt.NewGroundedBuilder(question, chunks).Build()

	answer, err := g.llmProvider.Generate(ctx, promptText,
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(1200),
	)
	if err != nil {
		return "", nil, apperrors.Upstream("answer synthesis failed", err)
	}

	cited := g.parseCitations(answer, len(chunks))
	g.logger.Debug("response", "Answer generated", map[string]interface{}{
		"context_chunks": len(chunks),
		"cited_chunks":   len(cited),
	})

	used := chunks
	if len(cited) > 0 {
		used = make([]*entity.ScoredChunk, 0, len(cited))
		for _, idx := range cited {
			used = append(used, chunks[idx])
		}
	}

	return answer, SourceReferences(used), nil
}

// parseCitations extracts zero-based chunk indexes from [Sn] markers, in
// first-mention order, dropping duplicates and out-of-range labels.
func (g *Generator) parseCitations(answer string, total int) []int {
	matches := citationPattern.FindAllStringSubmatch(answer, -1)
	seen := make(map[int]bool)
	var cited []int
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > total {
			continue
		}
		if seen[n-1] {
			continue
		}
		seen[n-1] = true
		cited = append(cited, n-1)
	}
	return cited
}

// SourceReferences maps chunks to client-visible attributions, truncating
// snippets to keep responses small.
func SourceReferences(chunks []*entity.ScoredChunk) []entity.SourceReference {
	sources := make([]entity.SourceReference, len(chunks))
	for i, scored := range chunks {
		snippet := scored.Chunk.Content
		if len(snippet) > snippetMaxLen {
			// Back up to a rune boundary so the cut never splits a
			// multi-byte character.
			cut := snippetMaxLen
			for cut > 0 && !utf8.RuneStart(snippet[cut]) {
				cut--
			}
			snippet = snippet[:cut] + "..."
		}
		sources[i] = entity.SourceReference{
			File:      scored.Chunk.FilePath,
			Snippet:   snippet,
			LineStart: scored.Chunk.LineStart,
			LineEnd:   scored.Chunk.LineEnd,
		}
	}
	return sources
}
