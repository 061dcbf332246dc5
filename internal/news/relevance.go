package news

import (
	"strings"
	"time"

	"marketintel/internal/types"
)

// marketKeywords are the phrases that mark an article as market coverage
// rather than general company news.
var marketKeywords = []string{
	"stock price",
	"market cap",
	"trading volume",
	"earnings report",
	"quarterly results",
	"revenue growth",
	"profit margin",
	"market share",
	"analyst rating",
	"price target",
	"financial results",
	"market performance",
}

// RelevanceFilter decides whether an article is worth scoring at all.
type RelevanceFilter struct {
	window   time.Duration
	keywords []string
}

func NewRelevanceFilter(windowDays int) *RelevanceFilter {
	return &RelevanceFilter{
		window:   time.Duration(windowDays) * 24 * time.Hour,
		keywords: marketKeywords,
	}
}

// Check reports whether the article is market-relevant and how many
// keywords matched. An article passes when at least two keywords match,
// it is complete, and it was published inside the recency window.
// Future-dated articles are tolerated; upstream clocks drift.
func (f *RelevanceFilter) Check(a types.Article, now time.Time) (bool, int) {
	if a.Title == "" || a.Description == "" || a.PublishedAt.IsZero() {
		return false, 0
	}

	text := strings.ToLower(a.Title + " " + a.Description)
	matched := 0
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}

	if matched < 2 {
		return false, matched
	}
	if now.Sub(a.PublishedAt) > f.window {
		return false, matched
	}
	return true, matched
}

// Filter applies Check to every article, annotating survivors with their
// keyword match count.
func (f *RelevanceFilter) Filter(articles []types.Article, now time.Time) []types.AnalyzedArticle {
	out := make([]types.AnalyzedArticle, 0, len(articles))
	for _, a := range articles {
		ok, matched := f.Check(a, now)
		if !ok {
			continue
		}
		out = append(out, types.AnalyzedArticle{
			Article:        a,
			KeywordMatches: matched,
		})
	}
	return out
}
