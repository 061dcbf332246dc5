package news

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"marketintel/internal/logger"
	"marketintel/internal/types"
)

func newFeedClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// RSSSource pulls articles from configured finance RSS feeds. Feeds are
// not query-scoped, so items are filtered to ones mentioning the symbol.
type RSSSource struct {
	feeds  []string
	parser *gofeed.Parser
	limit  int
}

func NewRSSSource(feeds []string, timeout time.Duration, limit int) *RSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = "marketintel/1.0"
	if timeout > 0 {
		parser.Client = newFeedClient(timeout)
	}
	return &RSSSource{feeds: feeds, parser: parser, limit: limit}
}

func (s *RSSSource) Name() string { return "rss" }

func (s *RSSSource) Fetch(ctx context.Context, symbol string) ([]types.Article, error) {
	var articles []types.Article

	for _, feedURL := range s.feeds {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to parse feed", err, "feed", feedURL)
			continue
		}

		for _, item := range feed.Items {
			if len(articles) >= s.limit {
				return articles, nil
			}
			if item.Title == "" || item.Description == "" || item.PublishedParsed == nil {
				continue
			}
			if !mentionsSymbol(item.Title+" "+item.Description, symbol) {
				continue
			}
			articles = append(articles, types.Article{
				Title:       item.Title,
				Description: item.Description,
				Source:      feed.Title,
				URL:         item.Link,
				PublishedAt: *item.PublishedParsed,
			})
		}
	}

	logger.Debug(ctx, "RSS fetch completed", "symbol", symbol, "feeds", len(s.feeds), "articles", len(articles))
	return articles, nil
}
