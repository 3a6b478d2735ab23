package confidence

import (
	"testing"

	"gitsleuth-be/internal/entity"
)

func scored(similarities ...float64) []*entity.ScoredChunk {
	out := make([]*entity.ScoredChunk, len(similarities))
	for i, s := range similarities {
		out[i] = &entity.ScoredChunk{
			Chunk:      &entity.Chunk{FilePath: "main.go"},
			Similarity: s,
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	c := NewClassifier(0.6, 0.15, 0.05)

	tests := []struct {
		name    string
		results []*entity.ScoredChunk
		want    entity.Confidence
	}{
		{
			name:    "empty is low",
			results: nil,
			want:    entity.ConfidenceLow,
		},
		{
			name:    "top barely above base is low",
			results: scored(0.18, 0.16),
			want:    entity.ConfidenceLow,
		},
		{
			name:    "strong top with support is high",
			results: scored(0.85, 0.70, 0.30),
			want:    entity.ConfidenceHigh,
		},
		{
			name:    "strong top without support is medium",
			results: scored(0.85),
			want:    entity.ConfidenceMedium,
		},
		{
			name:    "moderate scores are medium",
			results: scored(0.45, 0.40, 0.35),
			want:    entity.ConfidenceMedium,
		},
		{
			name:    "top exactly at high bar with support is high",
			results: scored(0.60, 0.20),
			want:    entity.ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.results); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyNeverHighWithFewerThanTwoResults(t *testing.T) {
	c := NewClassifier(0.6, 0.15, 0.05)
	if got := c.Classify(scored(0.99)); got == entity.ConfidenceHigh {
		t.Fatalf("single result classified as high")
	}
}
