package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
)

// Server is the geo HTTP server.
type Server struct {
	config     *ServerConfig
	httpServer *http.Server
	logger     *slog.Logger

	mu         sync.Mutex
	onShutdown []func()
}

// New creates a server for handler. A nil config uses DefaultServerConfig.
func New(config *ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: config,
		httpServer: &http.Server{
			Addr:              config.Address,
			Handler:           handler,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			ReadTimeout:       config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger.With("component", "server"),
	}
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	if err := s.config.ValidateConfig(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	s.logger.Info("server starting", "address", ln.Addr().String())
	go func() {
		serveErr <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		s.runShutdownHooks()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.logger.Info("server shutdown complete")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// RegisterOnShutdown registers fn to run when shutdown begins. Hijacked
// connections such as live sockets are not tracked by http.Server and must
// be closed this way. Hooks run in registration order and complete before
// Serve returns.
func (s *Server) RegisterOnShutdown(fn func()) {
	s.mu.Lock()
	s.onShutdown = append(s.onShutdown, fn)
	s.mu.Unlock()
}

func (s *Server) runShutdownHooks() {
	s.mu.Lock()
	hooks := s.onShutdown
	s.onShutdown = nil
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}
