package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketintel/internal/logger"
	"marketintel/internal/portfolio"
	"marketintel/internal/scheduler"
	"marketintel/internal/server"
	"marketintel/internal/store"
	"marketintel/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("DASHBOARD_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := store.LoadConfig(configPath)
	must(err)

	ledger, err := portfolio.Open(cfg.Portfolio.DBPath)
	must(err)
	defer ledger.Close()

	service := buildService(cfg)
	defer service.Close()

	provider := buildProvider(cfg)
	engine := buildAlertEngine(cfg, provider)

	sched := scheduler.New(ctx, service, ledger, engine)
	must(sched.RegisterAll(cfg.Schedule.RefreshSpec, cfg.Schedule.AlertSpec))
	sched.Start()

	srv := server.New(server.Config{
		Addr:     cfg.Server.Addr,
		Range:    cfg.MarketData.Range,
		Interval: cfg.MarketData.Interval,
	}, service, ledger, provider, engine)

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigc:
		logger.Info(ctx, "Shutting down", "signal", sig.String())
	case err := <-errc:
		logger.ErrorWithErr(ctx, "Server failed", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Server shutdown failed", err)
	}
	sched.Stop()
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Trace shutdown failed", err)
	}
}
