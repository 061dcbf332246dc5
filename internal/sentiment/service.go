package sentiment

import (
	"context"
	"sync"
	"time"

	"marketintel/internal/classify"
	"marketintel/internal/logger"
	"marketintel/internal/news"
	"marketintel/internal/trace"
	"marketintel/internal/types"
)

// Service runs the full per-symbol pipeline: fetch, filter, classify,
// score, aggregate, cache. Every degradable failure along the way
// collapses to a neutral report; the only error it returns is the
// caller's own cancellation.
type Service struct {
	sources  []news.Source
	filter   *news.RelevanceFilter
	chain    classify.Classifier
	analyzer *Analyzer
	cache    *verdictCache
	workers  int
}

// ServiceConfig configures the pipeline service.
type ServiceConfig struct {
	CacheTTL   time.Duration
	MaxWorkers int
}

func NewService(sources []news.Source, filter *news.RelevanceFilter, chain classify.Classifier, analyzer *Analyzer, cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	workers := cfg.MaxWorkers
	if workers < 1 {
		workers = 4
	}
	return &Service{
		sources:  sources,
		filter:   filter,
		chain:    chain,
		analyzer: analyzer,
		cache:    newVerdictCache(ttl),
		workers:  workers,
	}
}

// Report produces the sentiment report for one symbol, serving from
// cache when a fresh enough entry exists.
func (s *Service) Report(ctx context.Context, symbol string) (types.SymbolReport, error) {
	now := time.Now()
	if cached, ok := s.cache.get(symbol, now); ok {
		logger.Debug(ctx, "Serving cached sentiment", "symbol", symbol)
		return cached, nil
	}

	ctx, span := trace.StartSpan(ctx, "sentiment-report")
	defer span.End()

	timer := logger.StartOperation(ctx, "sentiment_report", "symbol", symbol)

	articles, err := s.fetchArticles(ctx, symbol)
	if err != nil {
		timer.EndWithError(err)
		return types.SymbolReport{}, err
	}

	relevant := s.filter.Filter(articles, now)

	analyzed, err := s.classifyAll(ctx, symbol, relevant)
	if err != nil {
		timer.EndWithError(err)
		return types.SymbolReport{}, err
	}

	analyzed = s.analyzer.ScoreArticles(analyzed)
	verdict := s.analyzer.Aggregate(symbol, analyzed, now)

	report := types.SymbolReport{Sentiment: verdict, Articles: analyzed}
	s.cache.set(symbol, report, now)

	timer.End("fetched", len(articles), "relevant", len(relevant), "direction", string(verdict.Direction))
	return report, nil
}

// fetchArticles tries sources in order until one yields articles.
// Individual source failures already degrade to empty slices, so the
// only error surfaced here is cancellation.
func (s *Service) fetchArticles(ctx context.Context, symbol string) ([]types.Article, error) {
	for _, src := range s.sources {
		articles, err := src.Fetch(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if len(articles) > 0 {
			logger.Debug(ctx, "Articles fetched", "symbol", symbol, "source", src.Name(), "count", len(articles))
			return articles, nil
		}
	}
	logger.Info(ctx, "No articles from any source", "symbol", symbol)
	return nil, nil
}

// classifyAll runs the classifier chain over the relevant articles with
// a bounded worker pool. Articles are independent, so fan-out is safe;
// results keep the input order.
func (s *Service) classifyAll(ctx context.Context, symbol string, articles []types.AnalyzedArticle) ([]types.AnalyzedArticle, error) {
	if len(articles) == 0 {
		return articles, nil
	}

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range articles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			verdict, err := s.chain.Classify(ctx, articles[i].Article)
			if err != nil {
				// Chain only fails on cancellation; the caller's
				// ctx.Err check below reports it.
				return
			}
			articles[i].Verdict = verdict
			logger.Verdict(ctx, symbol, verdict.Classifier, string(verdict.Label))
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

// MarketMood aggregates the sentiment of every symbol into one market
// verdict. Symbols without articles are skipped; when every symbol is
// skipped there is no mood to report and the result is nil.
func (s *Service) MarketMood(ctx context.Context, symbols []string) (*types.MarketMood, error) {
	sentiments := make([]types.SymbolSentiment, 0, len(symbols))
	for _, symbol := range symbols {
		report, err := s.Report(ctx, symbol)
		if err != nil {
			return nil, err
		}
		sentiments = append(sentiments, report.Sentiment)
	}
	return Mood(sentiments, time.Now()), nil
}

// Refresh recomputes a symbol's report, bypassing the cache. The
// scheduler uses it to keep the cache warm.
func (s *Service) Refresh(ctx context.Context, symbol string) (types.SymbolReport, error) {
	s.cache.mu.Lock()
	delete(s.cache.data, symbol)
	s.cache.mu.Unlock()
	return s.Report(ctx, symbol)
}

// Close stops the cache sweep goroutine.
func (s *Service) Close() {
	s.cache.close()
}
