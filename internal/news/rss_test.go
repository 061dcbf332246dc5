package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRSSSourceFetch(t *testing.T) {
	pubDate := time.Now().Add(-2 * time.Hour).Format(time.RFC1123Z)
	feed := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Finance Wire</title>
    <link>http://example.com</link>
    <description>test feed</description>
    <item>
      <title>Apple stock price climbs after earnings report</title>
      <description>Quarterly results beat analyst rating expectations.</description>
      <link>http://example.com/apple</link>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Crude oil steadies</title>
      <description>Energy markets calm after a volatile week.</description>
      <link>http://example.com/oil</link>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`, pubDate, pubDate)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	src := NewRSSSource([]string{srv.URL}, 5*time.Second, 25)
	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("Expected 1 matching article, got %d", len(articles))
	}
	if articles[0].Title != "Apple stock price climbs after earnings report" {
		t.Errorf("Unexpected title: %q", articles[0].Title)
	}
	if articles[0].Source != "Test Finance Wire" {
		t.Errorf("Expected feed title as source, got %q", articles[0].Source)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("Expected parsed publish timestamp")
	}
}

func TestRSSSourceBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	src := NewRSSSource([]string{srv.URL}, 5*time.Second, 25)
	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected degraded empty result, got error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected no articles from broken feed, got %d", len(articles))
	}
}
