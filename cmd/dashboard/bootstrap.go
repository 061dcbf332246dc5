package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"marketintel/internal/alerts"
	"marketintel/internal/classify"
	"marketintel/internal/logger"
	"marketintel/internal/marketdata"
	"marketintel/internal/news"
	"marketintel/internal/sentiment"
	"marketintel/internal/store"
	"marketintel/internal/trace"
)

// initializeSystem loads .env and brings up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// buildSources assembles the article sources in fallback order:
// the news API first, then RSS feeds, then the headline scraper.
func buildSources(cfg *store.Config) []news.Source {
	timeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second

	sources := []news.Source{
		news.NewAPISource(news.APISourceConfig{
			BaseURL:    cfg.News.BaseURL,
			APIKey:     cfg.News.APIKey,
			PageSize:   cfg.News.PageSize,
			WindowDays: cfg.News.WindowDays,
			Timeout:    timeout,
		}),
	}
	if len(cfg.News.Feeds) > 0 {
		sources = append(sources, news.NewRSSSource(cfg.News.Feeds, timeout, cfg.News.PageSize))
	}
	if cfg.News.Scrape.Enabled {
		sources = append(sources, news.NewScrapeSource(news.ScrapeConfig{
			PageURL:          cfg.News.Scrape.URL,
			AllowedDomains:   cfg.News.Scrape.AllowedDomains,
			ItemSelector:     cfg.News.Scrape.ItemSelector,
			HeadlineSelector: cfg.News.Scrape.HeadlineSelector,
			SummarySelector:  cfg.News.Scrape.SummarySelector,
			Timeout:          timeout,
			Limit:            cfg.News.PageSize,
		}))
	}
	return sources
}

// buildClassifierChain puts the remote classifier (when credentialed)
// in front of the lexicon fallback. Without a key the remote stage
// short-circuits and every verdict comes from the lexicon.
func buildClassifierChain(cfg *store.Config) *classify.Chain {
	remote := classify.NewRemote(classify.RemoteConfig{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       cfg.LLM.Temperature,
		Timeout:           time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
	return classify.NewChain(remote, classify.NewLexicon())
}

func buildService(cfg *store.Config) *sentiment.Service {
	return sentiment.NewService(
		buildSources(cfg),
		news.NewRelevanceFilter(cfg.News.WindowDays),
		buildClassifierChain(cfg),
		sentiment.NewAnalyzer(sentiment.NewScorer()),
		sentiment.ServiceConfig{
			CacheTTL:   time.Duration(cfg.Sentiment.CacheMinutes) * time.Minute,
			MaxWorkers: cfg.Sentiment.MaxWorkers,
		},
	)
}

func buildProvider(cfg *store.Config) *marketdata.YahooProvider {
	return marketdata.NewYahooProvider(marketdata.YahooConfig{
		Timeout: time.Duration(cfg.MarketData.TimeoutSeconds) * time.Second,
	})
}

func buildAlertEngine(cfg *store.Config, provider marketdata.Provider) *alerts.Engine {
	return alerts.NewEngine(provider, alerts.EngineConfig{
		Thresholds: alerts.Thresholds{
			PriceMovePct:  cfg.Alerts.PriceMovePct,
			VolumeSpike:   cfg.Alerts.VolumeSpike,
			VolatilityPct: cfg.Alerts.VolatilityPct,
			FearLevel:     cfg.Alerts.FearLevel,
		},
		Range:     cfg.MarketData.Range,
		Interval:  cfg.MarketData.Interval,
		MaxStored: cfg.Alerts.MaxStored,
	})
}
