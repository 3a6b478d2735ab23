package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func repoContent(lines int) string {
	var sb strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&sb, "line %03d: some code that does something useful\n", i)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func TestSplitEmptyContent(t *testing.T) {
	if got := Split("empty.go", "", 100, 20); got != nil {
		t.Errorf("Split on empty content = %d chunks, want none", len(got))
	}
}

func TestSplitSmallFileSingleChunk(t *testing.T) {
	content := "package main\n\nfunc main() {}"
	chunks := Split("main.go", content, 1000, 200)

	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Content != content {
		t.Errorf("single chunk content = %q, want full file", chunks[0].Content)
	}
	if chunks[0].LineStart != 1 || chunks[0].LineEnd != 3 {
		t.Errorf("lines = %d..%d, want 1..3", chunks[0].LineStart, chunks[0].LineEnd)
	}
}

func TestSplitLineInvariants(t *testing.T) {
	content := repoContent(120)
	chunks := Split("big.go", content, 500, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	totalLines := len(strings.Split(content, "\n"))
	for i, c := range chunks {
		if c.LineStart > c.LineEnd {
			t.Errorf("chunk %d: line_start %d > line_end %d", i, c.LineStart, c.LineEnd)
		}
		if c.LineStart < 1 || c.LineEnd > totalLines {
			t.Errorf("chunk %d: lines %d..%d outside file bounds 1..%d", i, c.LineStart, c.LineEnd, totalLines)
		}
		if i > 0 {
			prev := chunks[i-1]
			if c.LineStart > prev.LineEnd+1 {
				t.Errorf("chunk %d: gap between line %d and %d", i, prev.LineEnd, c.LineStart)
			}
			if c.LineEnd <= prev.LineEnd {
				t.Errorf("chunk %d: window did not advance (%d..%d after %d..%d)",
					i, c.LineStart, c.LineEnd, prev.LineStart, prev.LineEnd)
			}
		}
	}

	if chunks[0].LineStart != 1 {
		t.Errorf("first chunk starts at line %d, want 1", chunks[0].LineStart)
	}
	if chunks[len(chunks)-1].LineEnd != totalLines {
		t.Errorf("last chunk ends at line %d, want %d", chunks[len(chunks)-1].LineEnd, totalLines)
	}
}

// Concatenating each chunk's non-overlapping line range must reconstruct the
// original file exactly.
func TestSplitReconstruction(t *testing.T) {
	contents := []string{
		repoContent(1),
		repoContent(37),
		repoContent(200),
		"a\n\n\nb\n\nc", // blank lines preserved
		"single line without newline",
	}

	for _, content := range contents {
		lines := strings.Split(content, "\n")
		chunks := Split("f.go", content, 300, 80)

		var rebuilt []string
		covered := 0
		for _, c := range chunks {
			from := c.LineStart - 1
			if from < covered {
				from = covered // skip overlap already emitted
			}
			rebuilt = append(rebuilt, lines[from:c.LineEnd]...)
			covered = c.LineEnd
		}

		if got := strings.Join(rebuilt, "\n"); got != content {
			t.Errorf("reconstruction mismatch for %d-line input:\ngot  %q\nwant %q", len(lines), got, content)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	content := repoContent(90)

	first := Split("x.py", content, 400, 120)
	second := Split("x.py", content, 400, 120)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Content != second[i].Content ||
			first[i].LineStart != second[i].LineStart ||
			first[i].LineEnd != second[i].LineEnd {
			t.Errorf("chunk %d differs between identical runs", i)
		}
	}
}

func TestSplitOverlapCarriesPreviousTail(t *testing.T) {
	content := repoContent(60)
	chunks := Split("y.go", content, 300, 100)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.LineStart > prev.LineEnd+1 {
			continue // no overlap is allowed, gaps are not
		}
		if cur.LineStart <= prev.LineEnd {
			shared := strings.Join(strings.Split(content, "\n")[cur.LineStart-1:prev.LineEnd], "\n")
			if !strings.HasPrefix(cur.Content, shared) {
				t.Errorf("chunk %d does not start with the shared tail of chunk %d", i, i-1)
			}
		}
	}
}

func TestSplitInvalidOverlapFallsBack(t *testing.T) {
	content := repoContent(50)
	// overlap >= chunkSize would stall the window; it must degrade to zero
	// overlap rather than loop.
	chunks := Split("z.go", content, 100, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].LineStart != chunks[i-1].LineEnd+1 {
			t.Errorf("chunk %d: expected no overlap, got start %d after end %d",
				i, chunks[i].LineStart, chunks[i-1].LineEnd)
		}
	}
}
