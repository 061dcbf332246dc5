package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "news:\n  page_size: 10\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.News.BaseURL != "https://newsapi.org/v2" {
		t.Errorf("Expected default news base URL, got %q", cfg.News.BaseURL)
	}
	if cfg.News.WindowDays != 7 {
		t.Errorf("Expected window_days 7, got %d", cfg.News.WindowDays)
	}
	if cfg.Sentiment.CacheMinutes != 15 {
		t.Errorf("Expected cache_minutes 15, got %d", cfg.Sentiment.CacheMinutes)
	}
	if cfg.Sentiment.MaxWorkers != 4 {
		t.Errorf("Expected max_workers 4, got %d", cfg.Sentiment.MaxWorkers)
	}
	if cfg.Alerts.FearLevel != 30.0 {
		t.Errorf("Expected fear_level 30, got %f", cfg.Alerts.FearLevel)
	}
	if cfg.Server.Addr != ":8090" {
		t.Errorf("Expected default server addr, got %q", cfg.Server.Addr)
	}
}

func TestLoadConfigPageSizeClamp(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{1, 5},
		{10, 10},
		{100, 25},
	}
	for _, c := range cases {
		var cfg Config
		cfg.News.PageSize = c.in
		cfg.applyDefaults()
		if cfg.News.PageSize != c.want {
			t.Errorf("page_size %d clamped to %d, want %d", c.in, cfg.News.PageSize, c.want)
		}
	}
}

func TestLoadConfigProviderDefaults(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: DEEPSEEK\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LLM.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("Expected DeepSeek base URL, got %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "deepseek-chat" {
		t.Errorf("Expected deepseek-chat model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSeconds != 30 {
		t.Errorf("Expected timeout 30s, got %d", cfg.LLM.TimeoutSeconds)
	}
}

func TestLoadConfigInvalidProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: GEMINI\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected validation error for unknown provider")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "env-news-key")
	t.Setenv("LLM_API_KEY", "env-llm-key")
	t.Setenv("DASHBOARD_ADDR", ":9999")

	path := writeConfig(t, "news:\n  api_key: file-key\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.News.APIKey != "env-news-key" {
		t.Errorf("Expected env override for news key, got %q", cfg.News.APIKey)
	}
	if cfg.LLM.APIKey != "env-llm-key" {
		t.Errorf("Expected env override for llm key, got %q", cfg.LLM.APIKey)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Expected env override for addr, got %q", cfg.Server.Addr)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config must validate, got: %v", err)
	}
}
