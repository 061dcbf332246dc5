package news

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"marketintel/internal/logger"
	"marketintel/internal/types"
)

// textOf extracts the trimmed text of the first selector match.
func textOf(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// ScrapeSource scrapes a finance headline page as a last-resort article
// source. Selectors come from configuration so a broken page layout is a
// config change, not a code change.
type ScrapeSource struct {
	pageURL          string
	allowedDomains   []string
	itemSelector     string
	headlineSelector string
	summarySelector  string
	timeout          time.Duration
	limit            int
}

// ScrapeConfig configures the headline scraper.
type ScrapeConfig struct {
	PageURL          string
	AllowedDomains   []string
	ItemSelector     string
	HeadlineSelector string
	SummarySelector  string
	Timeout          time.Duration
	Limit            int
}

func NewScrapeSource(cfg ScrapeConfig) *ScrapeSource {
	return &ScrapeSource{
		pageURL:          cfg.PageURL,
		allowedDomains:   cfg.AllowedDomains,
		itemSelector:     cfg.ItemSelector,
		headlineSelector: cfg.HeadlineSelector,
		summarySelector:  cfg.SummarySelector,
		timeout:          cfg.Timeout,
		limit:            cfg.Limit,
	}
}

func (s *ScrapeSource) Name() string { return "scraper" }

func (s *ScrapeSource) Fetch(ctx context.Context, symbol string) ([]types.Article, error) {
	var articles []types.Article

	opts := []colly.CollectorOption{
		colly.MaxDepth(1),
		colly.Async(false),
	}
	if len(s.allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(s.allowedDomains...))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	// Fetch time stands in for the publication timestamp: headline
	// listings carry no machine-readable date, and a live listing page
	// only shows current items anyway.
	fetchedAt := time.Now()

	c.OnHTML(s.itemSelector, func(e *colly.HTMLElement) {
		if len(articles) >= s.limit {
			return
		}

		headline := textOf(e.DOM, s.headlineSelector)
		summary := textOf(e.DOM, s.summarySelector)
		if headline == "" || summary == "" {
			return
		}
		if !mentionsSymbol(headline+" "+summary, symbol) {
			return
		}

		link, _ := e.DOM.Find("a").First().Attr("href")
		articles = append(articles, types.Article{
			Title:       headline,
			Description: summary,
			Source:      s.Name(),
			URL:         e.Request.AbsoluteURL(link),
			PublishedAt: fetchedAt,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scrape request failed", err, "url", r.Request.URL.String())
	})

	pageURL := strings.ReplaceAll(s.pageURL, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(pageURL); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.ErrorWithErr(ctx, "Failed to visit headline page", err, "url", pageURL)
		return nil, nil
	}
	c.Wait()

	logger.Debug(ctx, "Scrape completed", "symbol", symbol, "articles", len(articles))
	return articles, nil
}
