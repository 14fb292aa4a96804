package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server is an HTTP server bound to a listener.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
	done       chan struct{}
}

// New binds addr and returns a server ready to Start. Binding up front
// makes address errors surface before anything runs in the background.
func New(addr string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Addr returns the bound address, e.g. "127.0.0.1:9464".
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start serves in a goroutine until Shutdown.
func (s *Server) Start() {
	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "addr", s.Addr(), "error", err)
		}
	}()
}

// Shutdown gracefully shuts down the server and waits for Serve to return.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return err
}
