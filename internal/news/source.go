package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"marketintel/internal/api"
	"marketintel/internal/logger"
	"marketintel/internal/types"
)

// Source delivers candidate articles for a symbol. Implementations treat
// upstream failures as degradable: they log and return an empty slice so
// the pipeline can fall through to the next source. A non-nil error means
// the caller's context was cancelled.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) ([]types.Article, error)
}

// APISource fetches articles from a NewsAPI-compatible /everything endpoint.
type APISource struct {
	client   *api.Client
	baseURL  string
	apiKey   string
	pageSize int
	window   time.Duration
	retry    *api.RetryConfig

	warnOnce sync.Once
}

// APISourceConfig configures the news API adapter.
type APISourceConfig struct {
	BaseURL    string
	APIKey     string
	PageSize   int
	WindowDays int
	Timeout    time.Duration
	Retry      *api.RetryConfig
}

func NewAPISource(cfg APISourceConfig) *APISource {
	return &APISource{
		client: api.NewClient(
			api.WithTimeout(cfg.Timeout),
			api.WithLogging(true),
		),
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		window:   time.Duration(cfg.WindowDays) * 24 * time.Hour,
		retry:    cfg.Retry,
	}
}

func (s *APISource) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// buildQuery pairs the raw ticker with the company name so results cover
// both spellings, then narrows to market coverage.
func buildQuery(symbol string) string {
	return fmt.Sprintf(`("%s" stock OR "%s") AND (market OR earnings OR financial OR economy)`,
		symbol, CompanyName(symbol))
}

func (s *APISource) Fetch(ctx context.Context, symbol string) ([]types.Article, error) {
	if s.apiKey == "" {
		s.warnOnce.Do(func() {
			logger.Warn(ctx, "News API key not configured, source disabled", "source", s.Name())
		})
		return nil, nil
	}

	from := time.Now().Add(-s.window).Format("2006-01-02")
	reqURL := fmt.Sprintf("%s/everything?q=%s&language=en&sortBy=relevancy&pageSize=%d&from=%s&apiKey=%s",
		s.baseURL, url.QueryEscape(buildQuery(symbol)), s.pageSize, from, s.apiKey)

	req := api.NewRequest(http.MethodGet, reqURL).WithContext(ctx)
	resp, err := s.client.DoWithRetry(req, s.retry)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.ErrorWithErr(ctx, "News API request failed", err, "symbol", symbol)
		return nil, nil
	}

	var payload newsAPIResponse
	if err := resp.ParseJSON(&payload); err != nil {
		logger.ErrorWithErr(ctx, "News API returned malformed payload", err, "symbol", symbol)
		return nil, nil
	}
	if payload.Status != "ok" {
		logger.Warn(ctx, "News API returned non-ok status", "symbol", symbol, "status", payload.Status)
		return nil, nil
	}

	articles := make([]types.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		// The API substitutes "[Removed]" for withdrawn articles.
		if item.Title == "" || item.Title == "[Removed]" || item.Description == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			continue
		}
		articles = append(articles, types.Article{
			Title:       item.Title,
			Description: item.Description,
			Source:      item.Source.Name,
			URL:         item.URL,
			PublishedAt: publishedAt,
		})
	}

	logger.Debug(ctx, "News API fetch completed", "symbol", symbol, "total", payload.TotalResults, "usable", len(articles))
	return articles, nil
}

// mentionsSymbol reports whether text talks about the symbol or its company.
// Secondary sources use it because their feeds are not query-scoped.
func mentionsSymbol(text, symbol string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, strings.ToLower(symbol)) {
		return true
	}
	name := CompanyName(symbol)
	return name != symbol && strings.Contains(lower, strings.ToLower(name))
}
