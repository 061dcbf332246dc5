package sentiment

import (
	"math"
	"sort"
	"time"

	"marketintel/internal/types"
)

// Analyzer turns relevance-filtered, classified articles into a
// per-symbol sentiment verdict.
type Analyzer struct {
	scorer *Scorer
}

func NewAnalyzer(scorer *Scorer) *Analyzer {
	return &Analyzer{scorer: scorer}
}

// ScoreArticles fills in the polarity scores for each article in place.
func (a *Analyzer) ScoreArticles(articles []types.AnalyzedArticle) []types.AnalyzedArticle {
	for i := range articles {
		articles[i].TitleScore = a.scorer.Polarity(articles[i].Article.Title)
		articles[i].DescriptionScore = a.scorer.Polarity(articles[i].Article.Description)
	}
	return articles
}

// Aggregate pools all title and description scores into one weighted
// mean. Titles carry a base weight of 1.5 boosted by their own score
// magnitude; both components gain weight with matched market keywords.
// An empty article set yields the fixed neutral verdict rather than an
// error.
func (a *Analyzer) Aggregate(symbol string, articles []types.AnalyzedArticle, now time.Time) types.SymbolSentiment {
	if len(articles) == 0 {
		return types.SymbolSentiment{
			Symbol:           symbol,
			Direction:        types.Neutral,
			AverageSentiment: 0.0,
			Confidence:       0.0,
			ArticleCount:     0,
			GeneratedAt:      now,
		}
	}

	var weightedSum, weightTotal float64
	for _, art := range articles {
		kwBonus := 0.1 * float64(art.KeywordMatches)
		titleWeight := 1.5 + math.Abs(art.TitleScore) + kwBonus
		descWeight := 1.0 + kwBonus

		weightedSum += art.TitleScore*titleWeight + art.DescriptionScore*descWeight
		weightTotal += titleWeight + descWeight
	}

	mean := 0.0
	if weightTotal > 0 {
		mean = weightedSum / weightTotal
	}

	confidence := math.Min(float64(len(articles))/10.0, 1.0) * (1.0 + math.Abs(mean)) * 100.0
	if confidence > 100 {
		confidence = 100
	}

	return types.SymbolSentiment{
		Symbol:           symbol,
		Direction:        directionFor(mean),
		AverageSentiment: mean,
		Confidence:       confidence,
		ArticleCount:     len(articles),
		TopInsights:      topInsights(articles),
		GeneratedAt:      now,
	}
}

// directionFor maps a mean score onto the direction label. The strong
// checks run first; the order is load-bearing.
func directionFor(mean float64) types.Direction {
	switch {
	case mean >= 0.5:
		return types.StrongBullish
	case mean >= 0.2:
		return types.Bullish
	case mean <= -0.5:
		return types.StrongBearish
	case mean <= -0.2:
		return types.Bearish
	default:
		return types.Neutral
	}
}

// topInsights surfaces the strongest headlines: title score magnitude
// above 0.3, ranked by magnitude with recency breaking ties, capped at
// three.
func topInsights(articles []types.AnalyzedArticle) []types.Insight {
	var insights []types.Insight
	for _, art := range articles {
		mag := math.Abs(art.TitleScore)
		if mag <= 0.3 {
			continue
		}
		impact := "Medium"
		if mag > 0.6 {
			impact = "High"
		}
		insights = append(insights, types.Insight{
			Title:       art.Article.Title,
			Score:       art.TitleScore,
			Impact:      impact,
			PublishedAt: art.Article.PublishedAt,
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		mi, mj := math.Abs(insights[i].Score), math.Abs(insights[j].Score)
		if mi != mj {
			return mi > mj
		}
		return insights[i].PublishedAt.After(insights[j].PublishedAt)
	})

	if len(insights) > 3 {
		insights = insights[:3]
	}
	return insights
}
