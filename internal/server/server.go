package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"marketintel/internal/alerts"
	"marketintel/internal/logger"
	"marketintel/internal/marketdata"
	"marketintel/internal/portfolio"
	"marketintel/internal/predict"
	"marketintel/internal/sentiment"
	"marketintel/internal/types"
)

// Server exposes the pipeline outputs as a read-only JSON API, plus
// the ledger's add/remove. It never surfaces pipeline failures as 5xx;
// degraded results come back well-formed.
type Server struct {
	service  *sentiment.Service
	ledger   *portfolio.Ledger
	provider marketdata.Provider
	engine   *alerts.Engine
	rng      string
	interval string

	httpSrv *http.Server
}

// Config configures the dashboard server.
type Config struct {
	Addr     string
	Range    string
	Interval string
}

func New(cfg Config, service *sentiment.Service, ledger *portfolio.Ledger, provider marketdata.Provider, engine *alerts.Engine) *Server {
	s := &Server{
		service:  service,
		ledger:   ledger,
		provider: provider,
		engine:   engine,
		rng:      cfg.Range,
		interval: cfg.Interval,
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/sentiment/{symbol}", s.handleSentiment)
	mux.HandleFunc("GET /api/mood", s.handleMood)
	mux.HandleFunc("GET /api/forecast/{symbol}", s.handleForecast)
	mux.HandleFunc("GET /api/prices/{symbol}", s.handlePrices)
	mux.HandleFunc("GET /api/market", s.handleMarket)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/positions", s.handleListPositions)
	mux.HandleFunc("POST /api/positions", s.handleAddPosition)
	mux.HandleFunc("DELETE /api/positions/{symbol}", s.handleRemovePosition)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info(r.Context(), "Request handled",
			"method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorWithErr(context.Background(), "Failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	report, err := s.service.Report(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.ledger.Symbols(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}

	mood, err := s.service.MarketMood(r.Context(), symbols)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	if mood == nil {
		writeError(w, http.StatusNotFound, "no mood available: no tracked symbol has recent articles")
		return
	}
	writeJSON(w, http.StatusOK, mood)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	bars := s.provider.History(r.Context(), symbol, s.rng, s.interval)

	predictor := predict.NewPredictor()
	if !predictor.Train(bars) {
		writeError(w, http.StatusNotFound, "insufficient history for a forecast")
		return
	}
	forecast, err := predictor.Forecast(symbol, bars, time.Now())
	if err != nil {
		writeError(w, http.StatusNotFound, "insufficient history for a forecast")
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	bars := s.provider.History(r.Context(), symbol, s.rng, s.interval)
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "bars": bars})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"indices":  s.provider.Indices(r.Context()),
		"calendar": marketdata.Calendar(time.Now()),
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": s.engine.Recent(limit)})
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.ledger.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}
	if positions == nil {
		positions = []types.Position{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	var p types.Position
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "malformed position payload")
		return
	}
	if err := s.ledger.Add(r.Context(), p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRemovePosition(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.Remove(r.Context(), r.PathValue("symbol"))
	if errors.Is(err, portfolio.ErrNoPosition) {
		writeError(w, http.StatusNotFound, "position not held")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	logger.Info(context.Background(), "Dashboard API listening", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
