// Package stream serves simulations over websockets. A client sends a run
// request and receives progress, match and result messages as the run
// proceeds.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/playnine/internal/simulator"
)

// DefaultMaxSimulations caps the size of a single remote run.
const DefaultMaxSimulations = 1_000_000

// Config configures a Server.
type Config struct {
	// Base supplies every run parameter a request leaves out.
	Base simulator.Config
	// MaxSimulations rejects requests above this size; 0 uses
	// DefaultMaxSimulations.
	MaxSimulations int
}

// Server runs simulations for websocket clients.
type Server struct {
	config   Config
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	conns    sync.WaitGroup
}

// NewServer creates a new websocket server.
func NewServer(config Config, logger zerolog.Logger) *Server {
	if config.MaxSimulations <= 0 {
		config.MaxSimulations = DefaultMaxSimulations
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With().Str("component", "stream").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close cancels every active run, disconnects all clients and waits for
// their handlers to return.
func (s *Server) Close() {
	s.cancel()
	s.conns.Wait()
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting websocket server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down websocket server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "server closed", http.StatusServiceUnavailable)
		return
	}
	s.conns.Add(1)
	defer s.conns.Done()

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	conn := newConnection(ws, s)
	conn.logger.Info().Str("remote", r.RemoteAddr).Msg("Client connected")
	conn.serve()
	conn.logger.Info().Msg("Client disconnected")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
