// Package server exposes joke and story generation over HTTP.
//
// Routes:
//
//	GET /api/jokes    JSON array of jokes
//	GET /api/stories  JSON array of stories
//	GET /healthz      provider heartbeat, 503 when unreachable
//
// Only one generation runs at a time. A request that arrives while another
// is in flight is rejected with 409 Conflict rather than queued.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bimmerbailey/jester/internal/config"
	"github.com/bimmerbailey/jester/internal/content"
	"github.com/gorilla/mux"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// ErrBusy is reported to clients while a generation is already running.
var ErrBusy = errors.New("generation already in progress")

var errNoGenerator = errors.New("no generator configured")

// Generator produces content for the API. *generator.Generator satisfies it.
type Generator interface {
	FetchJokes(ctx context.Context) []content.Joke
	FetchStories(ctx context.Context) []content.Story
	Heartbeat(ctx context.Context) error
}

type holder struct {
	gen Generator
}

// Server serves the HTTP API.
type Server struct {
	cfg    config.ServerConfig
	logger *slog.Logger
	router *mux.Router

	gen  atomic.Pointer[holder]
	busy sync.Mutex
}

// New creates a Server backed by gen.
func New(gen Generator, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.SetGenerator(gen)
	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/jokes", s.handleJokes).Methods(http.MethodGet)
	api.HandleFunc("/stories", s.handleStories).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// SetGenerator swaps the generator used for new requests. Requests already
// running finish with the previous one. A nil gen is ignored once a
// generator is set.
func (s *Server) SetGenerator(gen Generator) {
	if gen == nil && s.gen.Load() != nil {
		s.logger.Warn("ignoring nil generator")
		return
	}
	s.gen.Store(&holder{gen: gen})
}

// generator returns the current generator, or a stand-in serving fallback
// content when the server was created without one.
func (s *Server) generator() Generator {
	if h := s.gen.Load(); h != nil && h.gen != nil {
		return h.gen
	}
	return fallbackGenerator{}
}

// fallbackGenerator serves fallback records and reports itself unhealthy.
type fallbackGenerator struct{}

func (fallbackGenerator) FetchJokes(context.Context) []content.Joke { return content.FallbackJokes() }

func (fallbackGenerator) FetchStories(context.Context) []content.Story {
	return content.FallbackStories()
}

func (fallbackGenerator) Heartbeat(context.Context) error { return errNoGenerator }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleJokes(w http.ResponseWriter, r *http.Request) {
	if !s.busy.TryLock() {
		s.writeError(w, http.StatusConflict, ErrBusy)
		return
	}
	defer s.busy.Unlock()

	s.writeJSON(w, http.StatusOK, s.generator().FetchJokes(r.Context()))
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	if !s.busy.TryLock() {
		s.writeError(w, http.StatusConflict, ErrBusy)
		return
	}
	defer s.busy.Unlock()

	s.writeJSON(w, http.StatusOK, s.generator().FetchStories(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.generator().Heartbeat(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down,
// waiting up to ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
