package news

import (
	"testing"
	"time"

	"marketintel/internal/types"
)

func testArticle(title, description string, age time.Duration) types.Article {
	return types.Article{
		Title:       title,
		Description: description,
		Source:      "test",
		URL:         "http://example.com/a",
		PublishedAt: time.Now().Add(-age),
	}
}

func TestRelevanceKeywordBoundary(t *testing.T) {
	f := NewRelevanceFilter(7)
	now := time.Now()

	// Two keyword matches is the threshold.
	two := testArticle("Stock price climbs after earnings report", "Shares rallied.", time.Hour)
	ok, matched := f.Check(two, now)
	if !ok {
		t.Errorf("Expected article with 2 keywords to be relevant, matched=%d", matched)
	}
	if matched != 2 {
		t.Errorf("Expected 2 matched keywords, got %d", matched)
	}

	one := testArticle("Stock price climbs", "Shares rallied across the board.", time.Hour)
	ok, matched = f.Check(one, now)
	if ok {
		t.Error("Expected article with 1 keyword to be rejected")
	}
	if matched != 1 {
		t.Errorf("Expected 1 matched keyword, got %d", matched)
	}
}

func TestRelevanceRejectsStale(t *testing.T) {
	f := NewRelevanceFilter(7)
	stale := testArticle("Stock price falls on earnings report", "Analysts react.", 8*24*time.Hour)
	if ok, _ := f.Check(stale, time.Now()); ok {
		t.Error("Expected article published 8 days ago to be rejected")
	}

	fresh := testArticle("Stock price falls on earnings report", "Analysts react.", 6*24*time.Hour)
	if ok, _ := f.Check(fresh, time.Now()); !ok {
		t.Error("Expected article published 6 days ago to pass")
	}
}

func TestRelevanceToleratesFutureDates(t *testing.T) {
	f := NewRelevanceFilter(7)
	future := testArticle("Stock price eyes price target", "Analyst rating raised.", -2*time.Hour)
	if ok, _ := f.Check(future, time.Now()); !ok {
		t.Error("Expected future-dated article to be tolerated")
	}
}

func TestRelevanceRejectsIncomplete(t *testing.T) {
	f := NewRelevanceFilter(7)
	now := time.Now()

	noDesc := testArticle("Stock price and earnings report news", "", time.Hour)
	if ok, _ := f.Check(noDesc, now); ok {
		t.Error("Expected article without description to be rejected")
	}

	noDate := types.Article{Title: "Stock price earnings report", Description: "Both keywords present."}
	if ok, _ := f.Check(noDate, now); ok {
		t.Error("Expected article without timestamp to be rejected")
	}
}

func TestFilterAnnotatesMatches(t *testing.T) {
	f := NewRelevanceFilter(7)
	articles := []types.Article{
		testArticle("Earnings report shows revenue growth and market share gains", "Price target raised.", time.Hour),
		testArticle("Weather today", "Sunny skies.", time.Hour),
	}

	out := f.Filter(articles, time.Now())
	if len(out) != 1 {
		t.Fatalf("Expected 1 relevant article, got %d", len(out))
	}
	if out[0].KeywordMatches != 4 {
		t.Errorf("Expected 4 matched keywords, got %d", out[0].KeywordMatches)
	}
}
