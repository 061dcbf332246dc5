package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"marketintel/internal/api"
	"marketintel/internal/logger"
	"marketintel/internal/types"
)

// Provider supplies price history and index snapshots. Failures are
// degradable: implementations log and return empty results, never
// errors the pipeline would have to unwind.
type Provider interface {
	History(ctx context.Context, symbol, rng, interval string) []types.OHLCV
	Indices(ctx context.Context) []types.IndexQuote
}

// trackedIndices are the market-wide gauges shown on the dashboard.
var trackedIndices = []struct {
	symbol string
	name   string
}{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^VIX", "Volatility Index"},
	{"GC=F", "Gold"},
	{"^TNX", "10-Y Treasury"},
}

// YahooProvider reads the public Yahoo Finance chart API.
type YahooProvider struct {
	client  *api.Client
	baseURL string
	retry   *api.RetryConfig
}

// YahooConfig configures the Yahoo chart provider. An empty BaseURL
// selects the public endpoint; tests point it at a local server.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   *api.RetryConfig
}

func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	base := cfg.BaseURL
	if base == "" {
		base = "https://query1.finance.yahoo.com"
	}
	return &YahooProvider{
		client: api.NewClient(
			api.WithTimeout(cfg.Timeout),
			api.WithLogging(true),
		),
		baseURL: base,
		retry:   cfg.Retry,
	}
}

// yahooChart mirrors the chart API payload. OHLC arrays arrive with
// JSON nulls for halted bars, hence interface{} elements.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, rng, interval string) (*yahooChart, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		p.baseURL, url.PathEscape(symbol), rng, interval)

	req := api.NewRequest(http.MethodGet, reqURL).WithContext(ctx)
	for key, value := range api.YahooFinanceHeaders() {
		req.WithHeader(key, value)
	}

	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart api returned no result")
	}
	return &chart, nil
}

// History returns OHLCV bars for the symbol, oldest first. Bars with
// null quote entries are skipped. Any failure yields an empty slice;
// the predictor treats that the same as insufficient data.
func (p *YahooProvider) History(ctx context.Context, symbol, rng, interval string) []types.OHLCV {
	chart, err := p.fetchChart(ctx, symbol, rng, interval)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price history fetch failed", err, "symbol", symbol)
		return nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		logger.Warn(ctx, "Chart payload missing quotes", "symbol", symbol)
		return nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]types.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o, ok1 := toFloat(quote.Open[i])
		h, ok2 := toFloat(quote.High[i])
		l, ok3 := toFloat(quote.Low[i])
		c, ok4 := toFloat(quote.Close[i])
		v, ok5 := toFloat(quote.Volume[i])
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			continue
		}
		bars = append(bars, types.OHLCV{
			Ts:     time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	logger.Debug(ctx, "Price history fetched", "symbol", symbol, "bars", len(bars))
	return bars
}

// Indices snapshots the tracked market gauges. Individual index
// failures are skipped so one bad quote does not blank the panel.
func (p *YahooProvider) Indices(ctx context.Context) []types.IndexQuote {
	quotes := make([]types.IndexQuote, 0, len(trackedIndices))
	for _, idx := range trackedIndices {
		chart, err := p.fetchChart(ctx, idx.symbol, "5d", "1d")
		if err != nil {
			logger.ErrorWithErr(ctx, "Index quote fetch failed", err, "symbol", idx.symbol)
			continue
		}

		meta := chart.Chart.Result[0].Meta
		changePct := 0.0
		if meta.PreviousClose != 0 {
			changePct = (meta.RegularMarketPrice - meta.PreviousClose) / meta.PreviousClose * 100
		}
		quotes = append(quotes, types.IndexQuote{
			Symbol:    idx.symbol,
			Name:      idx.name,
			Price:     meta.RegularMarketPrice,
			ChangePct: changePct,
		})
	}
	return quotes
}
