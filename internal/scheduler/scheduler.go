package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"marketintel/internal/alerts"
	"marketintel/internal/logger"
	"marketintel/internal/portfolio"
	"marketintel/internal/sentiment"
)

// Scheduler runs the periodic background jobs: keeping the sentiment
// cache warm for every ledger symbol and sweeping for alerts.
type Scheduler struct {
	cron    *cron.Cron
	service *sentiment.Service
	ledger  portfolio.SymbolLister
	engine  *alerts.Engine
	ctx     context.Context
}

func New(ctx context.Context, service *sentiment.Service, ledger portfolio.SymbolLister, engine *alerts.Engine) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		service: service,
		ledger:  ledger,
		engine:  engine,
		ctx:     ctx,
	}
}

// RegisterAll wires the refresh and alert jobs from their cron specs.
func (s *Scheduler) RegisterAll(refreshSpec, alertSpec string) error {
	if _, err := s.cron.AddFunc(refreshSpec, s.refreshJob); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	if _, err := s.cron.AddFunc(alertSpec, s.alertJob); err != nil {
		return fmt.Errorf("register alert job: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started")
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info(s.ctx, "Scheduler stopped")
}

// refreshJob recomputes the sentiment report for every ledger symbol
// so page loads hit a warm cache.
func (s *Scheduler) refreshJob() {
	start := time.Now()
	symbols, err := s.ledger.Symbols(s.ctx)
	if err != nil {
		logger.ErrorWithErr(s.ctx, "Refresh job could not list symbols", err)
		return
	}

	for _, symbol := range symbols {
		if s.ctx.Err() != nil {
			return
		}
		if _, err := s.service.Refresh(s.ctx, symbol); err != nil {
			logger.ErrorWithErr(s.ctx, "Sentiment refresh failed", err, "symbol", symbol)
		}
	}
	logger.Info(s.ctx, "Sentiment refresh completed",
		"symbols", len(symbols), "duration_ms", time.Since(start).Milliseconds())
}

// alertJob sweeps all ledger symbols for threshold breaches.
func (s *Scheduler) alertJob() {
	start := time.Now()
	symbols, err := s.ledger.Symbols(s.ctx)
	if err != nil {
		logger.ErrorWithErr(s.ctx, "Alert job could not list symbols", err)
		return
	}

	raised := s.engine.Sweep(s.ctx, symbols)
	logger.Info(s.ctx, "Alert sweep completed",
		"symbols", len(symbols), "raised", len(raised), "duration_ms", time.Since(start).Milliseconds())
}
