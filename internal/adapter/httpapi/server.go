// Package httpapi exposes the shopping agent over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"shopping-agent/internal/application/port/input"
	"shopping-agent/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 10 * time.Second
)

type Config struct {
	Addr           string
	RequestTimeout time.Duration
	// AccessLog receives one line per request. Zero value disables it.
	AccessLog *zerolog.Logger
}

func DefaultConfig(addr string) Config {
	return Config{
		Addr:           addr,
		RequestTimeout: 2 * time.Minute,
	}
}

// NewAccessLog builds the request logger used by the server.
func NewAccessLog(level string) zerolog.Logger {
	return httplog.NewLogger("shopping-agent", httplog.Options{
		JSON:     true,
		LogLevel: level,
	})
}

type Server struct {
	cfg     Config
	agent   input.ShoppingAgent
	logger  output.LoggerPort
	started time.Time

	inFlight *atomic.Int64
	served   *atomic.Int64
	failed   *atomic.Int64
}

func NewServer(cfg Config, agent input.ShoppingAgent, logger output.LoggerPort) *Server {
	return &Server{
		cfg:      cfg,
		agent:    agent,
		logger:   logger,
		started:  time.Now(),
		inFlight: atomic.NewInt64(0),
		served:   atomic.NewInt64(0),
		failed:   atomic.NewInt64(0),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.cfg.AccessLog != nil {
		r.Use(httplog.RequestLogger(*s.cfg.AccessLog))
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/search", s.handleSearch)
	return r
}

// ListenAndServe blocks until ctx is canceled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	InFlight      int64  `json:"in_flight"`
	Served        int64  `json:"served"`
	Failed        int64  `json:"failed"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		InFlight:      s.inFlight.Load(),
		Served:        s.served.Load(),
		Failed:        s.failed.Load(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

type searchRequest struct {
	Output string `json:"output"`
}

type searchResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Output) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `field "output" must not be empty`})
		return
	}

	s.inFlight.Inc()
	defer s.inFlight.Dec()

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	log := s.logger.WithField("requestId", middleware.GetReqID(ctx))
	log.Info("Search request received", "messageLen", len(req.Output))

	result, err := s.agent.Execute(ctx, req.Output)
	var answer string
	if err != nil {
		s.failed.Inc()
		log.Warn("Search request failed", "error", err)
		answer = input.RenderError(err)
	} else {
		s.served.Inc()
		log.Info("Search request answered",
			"conversationId", result.ConversationID,
			"tool", result.Tool,
			"roundTrips", result.RoundTrips)
		answer = result.Answer
	}

	// Ошибки агента возвращаются текстом с кодом 200, как и обычный ответ.
	writeJSON(w, http.StatusOK, searchResponse{Result: answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
