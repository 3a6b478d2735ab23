// Package chunker splits source files into overlapping, positionally-addressed
// windows. Splitting is deterministic: the same content always yields the same
// chunk sequence, byte for byte.
package chunker

import (
	"strings"

	"gitsleuth-be/internal/entity"
)

// Split cuts content into line-aligned windows of roughly chunkSize characters.
// Adjacent windows share the trailing lines of the previous window up to
// overlap characters, so context at the boundary is preserved. The final
// window is truncated to the remaining content, never padded or dropped; the
// windows jointly cover every line of the file.
//
// Line numbers are 1-based and inclusive.
func Split(filePath, content string, chunkSize, overlap int) []entity.Chunk {
	if content == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0 // fallback if overlap >= chunkSize
	}

	lines := strings.Split(content, "\n")

	var chunks []entity.Chunk
	start := 0
	for start < len(lines) {
		// Grow the window line by line until it reaches chunkSize or EOF.
		size := 0
		end := start
		for ; end < len(lines); end++ {
			if end > start {
				size++ // separator
			}
			size += len(lines[end])
			if size >= chunkSize {
				break
			}
		}
		if end == len(lines) {
			end = len(lines) - 1
		}

		chunks = append(chunks, entity.Chunk{
			FilePath:  filePath,
			Content:   strings.Join(lines[start:end+1], "\n"),
			LineStart: start + 1,
			LineEnd:   end + 1,
		})

		if end == len(lines)-1 {
			break
		}

		start = end + 1 - carryLines(lines, start, end, overlap)
	}

	return chunks
}

// carryLines reports how many trailing lines of the window [start,end] fit
// inside the overlap allowance. At least one fresh line is always consumed per
// window, so splitting terminates even for pathological line lengths.
func carryLines(lines []string, start, end, overlap int) int {
	carried := 0
	size := 0
	for i := end; i > start && carried < end-start; i-- {
		size += len(lines[i])
		if carried > 0 {
			size++ // separator
		}
		if size > overlap {
			break
		}
		carried++
	}
	return carried
}
