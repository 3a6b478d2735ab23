package prompt

import (
	"fmt"
	"strings"

	"gitsleuth-be/internal/entity"
)

// GroundedBuilder builds the answer-synthesis prompt from retrieved chunks
type GroundedBuilder struct {
	question string
	chunks   []*entity.ScoredChunk
}

func NewGroundedBuilder(question string, chunks []*entity.ScoredChunk) *GroundedBuilder {
	return &GroundedBuilder{
		question: question,
		chunks:   chunks,
	}
}

// Build creates a prompt whose context blocks are labeled [S1]..[Sn] so the
// model can cite the chunks it grounded its answer in.
func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeCodeContext(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuestion(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeCodeContext(prompt *strings.Builder) {
	prompt.WriteString("<code_context>\n")
	prompt.WriteString("Each source is labeled [Sn] with its file path and line range.\n\n")

	for i, scored := range b.chunks {
		c := scored.Chunk
		prompt.WriteString(fmt.Sprintf("[S%d] %s (lines %d-%d, relevance %.3f)\n", i+1, c.FilePath, c.LineStart, c.LineEnd, scored.Similarity))
		prompt.WriteString(fmt.Sprintf("```%s\n", c.Language))
		prompt.WriteString(c.Content)
		prompt.WriteString("\n```\n\n")
	}

	prompt.WriteString("</code_context>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are an expert code analyst answering a question about a repository.\n")
	prompt.WriteString("Answer based ONLY on the code context above. Do NOT use outside knowledge about other projects.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundedBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Start with a direct answer to the question.\n")
	prompt.WriteString("2. Reference specific files, functions and line numbers from the context.\n")
	prompt.WriteString("3. Cite every source you rely on with its [Sn] marker, e.g. \"the handler registers routes [S2]\".\n")
	prompt.WriteString("4. If the context does not contain enough information, say so honestly instead of guessing.\n")
	prompt.WriteString("5. Keep code snippets in fenced blocks.\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *GroundedBuilder) writeUserQuestion(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Answer:")
}
