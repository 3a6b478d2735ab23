package confidence

import (
	"gitsleuth-be/internal/entity"
)

// Classifier derives a confidence label from the similarity distribution of
// a retrieval result. It never inspects answer text.
type Classifier struct {
	// HighScoreThreshold is the bar the top result must clear for "high".
	HighScoreThreshold float64
	// BaseThreshold is the retrieval similarity floor the results already cleared.
	BaseThreshold float64
	// LowScoreMargin demotes results whose top score only barely clears the floor.
	LowScoreMargin float64
}

func NewClassifier(highScoreThreshold, baseThreshold, lowScoreMargin float64) *Classifier {
	return &Classifier{
		HighScoreThreshold: highScoreThreshold,
		BaseThreshold:      baseThreshold,
		LowScoreMargin:     lowScoreMargin,
	}
}

// Classify maps retrieved chunks to high, medium or low. An empty result is
// always low, and high additionally requires at least two results above the
// base threshold.
func (c *Classifier) Classify(results []*entity.ScoredChunk) entity.Confidence {
	if len(results) == 0 {
		return entity.ConfidenceLow
	}

	top := results[0].Similarity
	for _, r := range results {
		if r.Similarity > top {
			top = r.Similarity
		}
	}

	if top < c.BaseThreshold+c.LowScoreMargin {
		return entity.ConfidenceLow
	}

	aboveBase := 0
	for _, r := range results {
		if r.Similarity >= c.BaseThreshold {
			aboveBase++
		}
	}

	if top >= c.HighScoreThreshold && aboveBase >= 2 {
		return entity.ConfidenceHigh
	}
	return entity.ConfidenceMedium
}
