package sentiment

import (
	"time"

	"marketintel/internal/types"
)

// Mood rolls per-symbol sentiment up into one market-wide reading.
// Symbols whose verdicts carry no articles contribute nothing; when no
// symbol contributes, the mood is absent (nil), which callers must keep
// distinct from a genuinely neutral mood.
func Mood(sentiments []types.SymbolSentiment, now time.Time) *types.MarketMood {
	var (
		weightedSum, weightTotal float64
		confidenceSum            float64
		totalArticles            int
		contributing             int
	)
	for _, s := range sentiments {
		if s.ArticleCount == 0 {
			continue
		}
		weight := (s.Confidence / 100.0) * float64(s.ArticleCount)
		weightedSum += s.AverageSentiment * weight
		weightTotal += weight
		confidenceSum += s.Confidence
		totalArticles += s.ArticleCount
		contributing++
	}

	if contributing == 0 {
		return nil
	}

	// A degenerate all-zero-confidence set still yields a defined, low
	// value rather than dividing by zero.
	if weightTotal <= 0 {
		weightTotal = 1
	}

	mean := weightedSum / weightTotal
	return &types.MarketMood{
		Sentiment:         mean,
		Direction:         directionFor(mean),
		SymbolsAnalyzed:   contributing,
		TotalArticles:     totalArticles,
		AverageConfidence: confidenceSum / float64(contributing),
		GeneratedAt:       now,
	}
}
