// Package web exposes report generation and run history over HTTP.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

const shutdownTimeout = 10 * time.Second

// Server handles web requests
type Server struct {
	runner      *job.Runner
	history     models.History
	port        int
	defaultDays int
	logger      *logrus.Logger
	accessLog   io.Writer
}

// Option configures a Server
type Option func(*Server)

// WithHistory enables the /api/runs endpoints
func WithHistory(h models.History) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithDefaultDays sets the period used when a request omits days
func WithDefaultDays(days int) Option {
	return func(s *Server) {
		if days > 0 {
			s.defaultDays = days
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAccessLog sets where request logs go
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) {
		s.accessLog = w
	}
}

// New creates a new web server
func New(runner *job.Runner, port int, opts ...Option) *Server {
	s := &Server{
		runner:      runner,
		port:        port,
		defaultDays: 30,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router wrapped in request logging
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id:[0-9]+}", s.handleRun).Methods(http.MethodGet)
	api.HandleFunc("/reports", s.handleGenerate).Methods(http.MethodPost)

	if s.accessLog == nil {
		return r
	}
	return handlers.LoggingHandler(s.accessLog, r)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Web server starting on port %d", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Stopping web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
