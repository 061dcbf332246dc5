package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"marketintel/internal/trace"
	"marketintel/internal/types"
)

// ErrNoCredentials short-circuits the remote path before any network
// call when no API key is configured.
var ErrNoCredentials = errors.New("llm api key missing")

// Remote classifies articles through an OpenAI-compatible chat
// completions endpoint. Calls are rate limited so a burst of articles
// cannot exhaust the provider quota.
type Remote struct {
	cfg        RemoteConfig
	limiter    *rate.Limiter
	httpClient *http.Client
}

// RemoteConfig configures the remote classifier.
type RemoteConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	MaxTokens         int
	Temperature       float32
	Timeout           time.Duration
	RequestsPerMinute int
}

func NewRemote(cfg RemoteConfig) *Remote {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}
	return &Remote{
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (r *Remote) Name() string { return "remote" }

func buildPrompt(article types.Article) string {
	return fmt.Sprintf(`Analyze this news article about a publicly traded company.
Respond ONLY with compact JSON, no prose, matching:
{"article_summary": "2-3 sentence summary", "significance": "why this matters", "market_impact": "one of: Very Positive, Somewhat Positive, Ambivalent, Somewhat Negative, Very Negative", "impact_explanation": "reasoning", "confidence": 0-100}

Title: %s
Description: %s`, article.Title, article.Description)
}

func (r *Remote) Classify(ctx context.Context, article types.Article) (types.ImpactVerdict, error) {
	if r.cfg.APIKey == "" {
		return types.ImpactVerdict{}, ErrNoCredentials
	}

	ctx, span := trace.StartSpan(ctx, "impact-classify-remote")
	defer span.End()

	if err := r.limiter.Wait(ctx); err != nil {
		return types.ImpactVerdict{}, err
	}

	body := map[string]any{
		"model":       r.cfg.Model,
		"messages":    []map[string]string{{"role": "user", "content": buildPrompt(article)}},
		"temperature": r.cfg.Temperature,
		"max_tokens":  r.cfg.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/chat/completions", bytes.NewReader(bb))
	if err != nil {
		return types.ImpactVerdict{}, err
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return types.ImpactVerdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.ImpactVerdict{}, fmt.Errorf("chat completions http %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ImpactVerdict{}, err
	}

	verdict, err := decodeVerdict(raw)
	if err != nil {
		return types.ImpactVerdict{}, err
	}
	verdict.Classifier = r.Name()
	return verdict, nil
}
