package alerts

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketintel/internal/logger"
	"marketintel/internal/marketdata"
	"marketintel/internal/types"
)

// Thresholds are the alert trigger levels. A reading at twice the
// threshold escalates the alert to critical.
type Thresholds struct {
	PriceMovePct  float64 // day-over-day close change
	VolumeSpike   float64 // multiple of the 20-bar average volume
	VolatilityPct float64 // 10-bar stddev relative to last close
	FearLevel     float64 // VIX level
}

// DefaultThresholds mirror the dashboard's stock settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceMovePct:  5.0,
		VolumeSpike:   2.0,
		VolatilityPct: 15.0,
		FearLevel:     30.0,
	}
}

// Engine sweeps tracked symbols for threshold breaches and keeps the
// most recent alerts in a bounded ring. Safe for concurrent use; the
// cron sweep and dashboard reads overlap.
type Engine struct {
	provider   marketdata.Provider
	thresholds Thresholds
	rng        string
	interval   string

	mu     sync.Mutex
	alerts []types.Alert
	max    int
}

// EngineConfig configures the alert engine.
type EngineConfig struct {
	Thresholds Thresholds
	Range      string
	Interval   string
	MaxStored  int
}

func NewEngine(provider marketdata.Provider, cfg EngineConfig) *Engine {
	maxStored := cfg.MaxStored
	if maxStored <= 0 {
		maxStored = 100
	}
	rng := cfg.Range
	if rng == "" {
		rng = "3mo"
	}
	interval := cfg.Interval
	if interval == "" {
		interval = "1d"
	}
	return &Engine{
		provider:   provider,
		thresholds: cfg.Thresholds,
		rng:        rng,
		interval:   interval,
		max:        maxStored,
	}
}

// Sweep checks every symbol's latest bars plus the VIX and raises
// alerts for breaches. Duplicate (kind, symbol) pairs within one sweep
// are suppressed. It returns the alerts raised by this sweep.
func (e *Engine) Sweep(ctx context.Context, symbols []string) []types.Alert {
	seen := make(map[string]bool)
	var raised []types.Alert

	add := func(kind types.AlertKind, symbol, message string, reading, threshold float64) {
		key := string(kind) + "|" + symbol
		if seen[key] {
			return
		}
		seen[key] = true

		severity := "warning"
		if threshold > 0 && math.Abs(reading) >= 2*threshold {
			severity = "critical"
		}
		a := types.Alert{
			ID:        uuid.NewString(),
			Kind:      kind,
			Symbol:    symbol,
			Message:   message,
			Severity:  severity,
			CreatedAt: time.Now(),
		}
		raised = append(raised, a)
		logger.AlertRaised(ctx, string(kind), symbol, severity, message)
	}

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		bars := e.provider.History(ctx, symbol, e.rng, e.interval)
		e.checkSymbol(symbol, bars, add)
	}

	e.checkFear(ctx, add)

	if len(raised) > 0 {
		e.store(raised)
	}
	return raised
}

func (e *Engine) checkSymbol(symbol string, bars []types.OHLCV, add func(types.AlertKind, string, string, float64, float64)) {
	if len(bars) < 2 {
		return
	}
	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	if prev.Close != 0 {
		movePct := (last.Close - prev.Close) / prev.Close * 100
		if math.Abs(movePct) >= e.thresholds.PriceMovePct {
			add(types.AlertPriceMove, symbol,
				fmt.Sprintf("%s moved %+.1f%% in one session", symbol, movePct),
				movePct, e.thresholds.PriceMovePct)
		}
	}

	if len(bars) >= 21 {
		var avgVolume float64
		for _, b := range bars[len(bars)-21 : len(bars)-1] {
			avgVolume += b.Volume
		}
		avgVolume /= 20
		if avgVolume > 0 {
			ratio := last.Volume / avgVolume
			if ratio >= e.thresholds.VolumeSpike {
				add(types.AlertVolumeSpike, symbol,
					fmt.Sprintf("%s volume %.1fx its 20-day average", symbol, ratio),
					ratio, e.thresholds.VolumeSpike)
			}
		}
	}

	if len(bars) >= 10 && last.Close != 0 {
		var mean float64
		window := bars[len(bars)-10:]
		for _, b := range window {
			mean += b.Close
		}
		mean /= 10
		var varSum float64
		for _, b := range window {
			d := b.Close - mean
			varSum += d * d
		}
		volPct := math.Sqrt(varSum/10) / last.Close * 100
		if volPct >= e.thresholds.VolatilityPct {
			add(types.AlertVolatility, symbol,
				fmt.Sprintf("%s 10-day volatility at %.1f%% of price", symbol, volPct),
				volPct, e.thresholds.VolatilityPct)
		}
	}
}

func (e *Engine) checkFear(ctx context.Context, add func(types.AlertKind, string, string, float64, float64)) {
	for _, q := range e.provider.Indices(ctx) {
		if q.Symbol != "^VIX" {
			continue
		}
		if q.Price > e.thresholds.FearLevel {
			add(types.AlertMarketFear, q.Symbol,
				fmt.Sprintf("VIX at %.1f, above the fear level of %.0f", q.Price, e.thresholds.FearLevel),
				q.Price, e.thresholds.FearLevel)
		}
		return
	}
}

func (e *Engine) store(raised []types.Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.alerts = append(e.alerts, raised...)
	if len(e.alerts) > e.max {
		e.alerts = e.alerts[len(e.alerts)-e.max:]
	}
}

// Recent returns the newest alerts first, up to limit (default 10).
func (e *Engine) Recent(limit int) []types.Alert {
	if limit <= 0 {
		limit = 10
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.alerts)
	if limit > n {
		limit = n
	}
	out := make([]types.Alert, limit)
	for i := 0; i < limit; i++ {
		out[i] = e.alerts[n-1-i]
	}
	return out
}
