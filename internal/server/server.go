package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/zeusync/focusar/internal/core/observability/log"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the broadcaster over HTTP.
type Server struct {
	addr   string
	logger log.Log

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New mounts handler at path on a fresh mux.
func New(addr, path string, handler http.Handler, logger log.Log) *Server {
	if path == "" {
		path = "/ws"
	}
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &Server{
		addr:   addr,
		logger: log.OrNop(logger).With(log.String("component", "server")),
		server: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}
}

// Listen binds the address. Serve calls it when needed.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return ErrServerAlreadyRunning
	}
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}
	s.listener = l
	return nil
}

// Addr is the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Serve runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	bound := s.listener != nil
	s.mu.Unlock()
	if !bound {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", log.String("addr", s.Addr()))
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	s.logger.Info("server stopped")
	return nil
}
