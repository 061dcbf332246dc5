package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketintel/internal/api"
)

func fastRetry() *api.RetryConfig {
	return &api.RetryConfig{MaxAttempts: 1, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
}

func TestAPISourceFetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":        r.URL.Query().Get("q"),
			"language": r.URL.Query().Get("language"),
			"sortBy":   r.URL.Query().Get("sortBy"),
			"pageSize": r.URL.Query().Get("pageSize"),
			"apiKey":   r.URL.Query().Get("apiKey"),
			"from":     r.URL.Query().Get("from"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 3,
			"articles": [
				{"source": {"name": "Wire"}, "title": "Apple stock price climbs", "description": "Earnings report beat.", "url": "http://example.com/1", "publishedAt": "2026-08-20T10:00:00Z"},
				{"source": {"name": "Wire"}, "title": "[Removed]", "description": "[Removed]", "url": "", "publishedAt": "2026-08-20T11:00:00Z"},
				{"source": {"name": "Desk"}, "title": "Apple outlook", "description": "Revenue growth ahead.", "url": "http://example.com/2", "publishedAt": "2026-08-19T09:30:00Z"}
			]
		}`))
	}))
	defer srv.Close()

	src := NewAPISource(APISourceConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		PageSize:   10,
		WindowDays: 7,
		Timeout:    5 * time.Second,
		Retry:      fastRetry(),
	})

	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Expected 2 usable articles, got %d", len(articles))
	}
	if articles[0].Title != "Apple stock price climbs" {
		t.Errorf("Unexpected first article title: %q", articles[0].Title)
	}
	if articles[0].Source != "Wire" {
		t.Errorf("Expected source Wire, got %q", articles[0].Source)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("Expected parsed publish timestamp")
	}

	if gotQuery["language"] != "en" {
		t.Errorf("Expected language=en, got %q", gotQuery["language"])
	}
	if gotQuery["sortBy"] != "relevancy" {
		t.Errorf("Expected sortBy=relevancy, got %q", gotQuery["sortBy"])
	}
	if gotQuery["pageSize"] != "10" {
		t.Errorf("Expected pageSize=10, got %q", gotQuery["pageSize"])
	}
	if gotQuery["apiKey"] != "test-key" {
		t.Errorf("Expected apiKey passthrough, got %q", gotQuery["apiKey"])
	}
	if !strings.Contains(gotQuery["q"], `"AAPL" stock`) || !strings.Contains(gotQuery["q"], `"Apple"`) {
		t.Errorf("Query missing symbol or company clause: %q", gotQuery["q"])
	}
	if !strings.Contains(gotQuery["q"], "earnings") {
		t.Errorf("Query missing market clause: %q", gotQuery["q"])
	}
	if gotQuery["from"] == "" {
		t.Fatal("Expected from date to be set")
	}
	fromDate, err := time.Parse("2006-01-02", gotQuery["from"])
	if err != nil {
		t.Fatalf("from date not parseable: %q", gotQuery["from"])
	}
	age := time.Since(fromDate)
	if age < 6*24*time.Hour || age > 8*24*time.Hour {
		t.Errorf("Expected from date about 7 days back, got %s", gotQuery["from"])
	}
}

func TestAPISourceMissingKey(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	src := NewAPISource(APISourceConfig{BaseURL: srv.URL, PageSize: 10, WindowDays: 7, Retry: fastRetry()})
	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected empty result without key, got %d articles", len(articles))
	}
	if requests != 0 {
		t.Errorf("Expected no upstream request without key, got %d", requests)
	}
}

func TestAPISourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewAPISource(APISourceConfig{BaseURL: srv.URL, APIKey: "k", PageSize: 10, WindowDays: 7, Retry: fastRetry()})
	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected degraded empty result, got error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected empty result on server error, got %d", len(articles))
	}
}

func TestAPISourceMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	src := NewAPISource(APISourceConfig{BaseURL: srv.URL, APIKey: "k", PageSize: 10, WindowDays: 7, Retry: fastRetry()})
	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected degraded empty result, got error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected empty result on malformed payload, got %d", len(articles))
	}
}

func TestAPISourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid"}`))
	}))
	defer srv.Close()

	src := NewAPISource(APISourceConfig{BaseURL: srv.URL, APIKey: "bad", PageSize: 10, WindowDays: 7, Retry: fastRetry()})
	articles, err := src.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected degraded empty result, got error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected empty result on error status, got %d", len(articles))
	}
}

func TestCompanyNameFallback(t *testing.T) {
	if got := CompanyName("AAPL"); got != "Apple" {
		t.Errorf("Expected Apple, got %q", got)
	}
	if got := CompanyName("aapl"); got != "Apple" {
		t.Errorf("Expected case-insensitive lookup, got %q", got)
	}
	if got := CompanyName("ZZZZ"); got != "ZZZZ" {
		t.Errorf("Expected identity fallback, got %q", got)
	}
}
