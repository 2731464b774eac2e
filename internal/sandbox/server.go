package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Endpoint paths
const (
	RPCPath = "/json-rpc"
	WSPath  = "/ws"
)

// Config for the sandbox server
type Config struct {
	Host        string
	Port        int
	MaxBodySize int64
}

// Server serves a BatchHandler on RPCPath and WSPath
type Server struct {
	cfg      Config
	backend  BatchHandler
	listener net.Listener
	srv      *http.Server
	logger   zerolog.Logger
}

// New creates a new Server
func New(cfg Config, backend BatchHandler, logger zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		backend: backend,
		logger:  logger.With().Str("component", "sandbox").Logger(),
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.Handle(RPCPath, NewHandler(s.backend, s.cfg.MaxBodySize, s.logger))
	mux.Handle(WSPath, NewWSHandler(s.backend, s.logger))

	s.srv = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		s.logger.Info().
			Str("rpc", s.RPCURL()).
			Str("ws", s.WSURL()).
			Msg("starting sandbox server")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("sandbox server error")
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// RPCURL returns the HTTP endpoint URL
func (s *Server) RPCURL() string {
	return "http://" + s.Addr() + RPCPath
}

// WSURL returns the WebSocket endpoint URL
func (s *Server) WSURL() string {
	return "ws://" + s.Addr() + WSPath
}

// Stop gracefully stops the server. WebSocket sessions are hijacked and
// are not waited for.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info().Msg("shutting down sandbox server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("sandbox server shutdown error: %w", err)
	}
	s.logger.Info().Msg("sandbox server stopped")
	return nil
}
