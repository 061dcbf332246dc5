package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	News struct {
		APIKey         string   `yaml:"api_key"`
		BaseURL        string   `yaml:"base_url"`
		PageSize       int      `yaml:"page_size"`
		WindowDays     int      `yaml:"window_days"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		Feeds          []string `yaml:"feeds"`
		Scrape         struct {
			Enabled          bool     `yaml:"enabled"`
			URL              string   `yaml:"url"`
			AllowedDomains   []string `yaml:"allowed_domains"`
			ItemSelector     string   `yaml:"item_selector"`
			HeadlineSelector string   `yaml:"headline_selector"`
			SummarySelector  string   `yaml:"summary_selector"`
		} `yaml:"scrape"`
	} `yaml:"news"`
	LLM struct {
		Provider          string  `yaml:"provider"`
		APIKey            string  `yaml:"api_key"`
		BaseURL           string  `yaml:"base_url"`
		Model             string  `yaml:"model"`
		MaxTokens         int     `yaml:"max_tokens"`
		Temperature       float32 `yaml:"temperature"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerMinute int     `yaml:"requests_per_minute"`
	} `yaml:"llm"`
	Sentiment struct {
		CacheMinutes int `yaml:"cache_minutes"`
		MaxWorkers   int `yaml:"max_workers"`
	} `yaml:"sentiment"`
	MarketData struct {
		Range          string `yaml:"range"`
		Interval       string `yaml:"interval"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"market_data"`
	Portfolio struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"portfolio"`
	Alerts struct {
		PriceMovePct  float64 `yaml:"price_move_pct"`
		VolumeSpike   float64 `yaml:"volume_spike"`
		VolatilityPct float64 `yaml:"volatility_pct"`
		FearLevel     float64 `yaml:"fear_level"`
		MaxStored     int     `yaml:"max_stored"`
	} `yaml:"alerts"`
	Schedule struct {
		RefreshSpec string `yaml:"refresh_spec"`
		AlertSpec   string `yaml:"alert_spec"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", "DEEPSEEK", "OPENAI":
	default:
		return fmt.Errorf("llm.provider must be 'DEEPSEEK', 'OPENAI' or empty, got '%s'", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	if c.News.WindowDays <= 0 {
		return fmt.Errorf("news.window_days must be positive, got %d", c.News.WindowDays)
	}
	if c.Sentiment.CacheMinutes <= 0 {
		return fmt.Errorf("sentiment.cache_minutes must be positive, got %d", c.Sentiment.CacheMinutes)
	}
	if c.Sentiment.MaxWorkers < 1 {
		return fmt.Errorf("sentiment.max_workers must be at least 1, got %d", c.Sentiment.MaxWorkers)
	}
	if c.Alerts.PriceMovePct <= 0 || c.Alerts.VolumeSpike <= 0 || c.Alerts.VolatilityPct <= 0 {
		return fmt.Errorf("alert thresholds must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	return nil
}

// Default returns a config with every default applied, valid as-is.
// Tests and callers without a config file start from here.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.News.BaseURL == "" {
		c.News.BaseURL = "https://newsapi.org/v2"
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 10
	}
	// The news API rejects tiny and huge pages; clamp instead of failing.
	if c.News.PageSize < 5 {
		c.News.PageSize = 5
	}
	if c.News.PageSize > 25 {
		c.News.PageSize = 25
	}
	if c.News.WindowDays == 0 {
		c.News.WindowDays = 7
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 15
	}
	switch c.LLM.Provider {
	case "DEEPSEEK":
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "https://api.deepseek.com/v1"
		}
		if c.LLM.Model == "" {
			c.LLM.Model = "deepseek-chat"
		}
	case "OPENAI":
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "https://api.openai.com/v1"
		}
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-4o-mini"
		}
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 150
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.LLM.RequestsPerMinute == 0 {
		c.LLM.RequestsPerMinute = 20
	}
	if c.Sentiment.CacheMinutes == 0 {
		c.Sentiment.CacheMinutes = 15
	}
	if c.Sentiment.MaxWorkers == 0 {
		c.Sentiment.MaxWorkers = 4
	}
	if c.MarketData.Range == "" {
		c.MarketData.Range = "3mo"
	}
	if c.MarketData.Interval == "" {
		c.MarketData.Interval = "1d"
	}
	if c.MarketData.TimeoutSeconds == 0 {
		c.MarketData.TimeoutSeconds = 30
	}
	if c.Portfolio.DBPath == "" {
		c.Portfolio.DBPath = "dashboard.db"
	}
	if c.Alerts.PriceMovePct == 0 {
		c.Alerts.PriceMovePct = 5.0
	}
	if c.Alerts.VolumeSpike == 0 {
		c.Alerts.VolumeSpike = 2.0
	}
	if c.Alerts.VolatilityPct == 0 {
		c.Alerts.VolatilityPct = 15.0
	}
	if c.Alerts.FearLevel == 0 {
		c.Alerts.FearLevel = 30.0
	}
	if c.Alerts.MaxStored == 0 {
		c.Alerts.MaxStored = 100
	}
	if c.Schedule.RefreshSpec == "" {
		c.Schedule.RefreshSpec = "0 */15 * * * *"
	}
	if c.Schedule.AlertSpec == "" {
		c.Schedule.AlertSpec = "30 */5 * * * *"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8090"
	}
}

// applyEnvOverrides lets deploy-time env vars win over the YAML file.
// Secrets are expected to arrive this way rather than through the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DASHBOARD_DB"); v != "" {
		c.Portfolio.DBPath = v
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
