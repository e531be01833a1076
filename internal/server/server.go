package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"reelmatch/internal/api"
	"reelmatch/internal/logging"
)

// DefaultRequestTimeout bounds a single request, including enrichment.
const DefaultRequestTimeout = 30 * time.Second

// Options configures a Server.
type Options struct {
	Bind           string
	RequestTimeout time.Duration
}

// Server serves the HTML page and JSON API for one loaded artifact set.
type Server struct {
	bind    string
	timeout time.Duration
	logger  *slog.Logger
	svc     *api.Service
	handler http.Handler

	listener net.Listener
	server   *http.Server
}

// New builds a Server around svc. Nothing listens until Start.
func New(svc *api.Service, opts Options, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: service is required")
	}
	bind := strings.TrimSpace(opts.Bind)
	if bind == "" {
		return nil, errors.New("server: bind address is required")
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	srv := &Server{
		bind:    bind,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "http"),
		svc:     svc,
	}
	page, err := newPage()
	if err != nil {
		return nil, err
	}
	srv.handler = srv.routes(page)
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening and serving in the background. The server shuts
// down when ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "http server stopped unexpectedly", "http_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that "+s.bind+" is still reachable"),
			)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("http server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown incomplete", logging.Error(err))
	}
}
