// Package server implements the collector's HTTP surface: the ingestion
// API, health and metrics endpoints, and the dashboard UI.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nodepulse/nodepulse/internal/logging"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// BatchQueuer is the subset of the writer handle the ingestion endpoint
// needs: hand a parsed batch to the writer's inbound queue.
type BatchQueuer interface {
	InsertBatch(ctx context.Context, points []telemetry.Point) error
}

// QueryStore is the subset of read operations the query and UI handlers
// need.
type QueryStore interface {
	NodeMetrics(ctx context.Context, nodeID, pattern string, hours int) ([]telemetry.Point, error)
	LatestNodeMetrics(ctx context.Context, nodeID string) ([]telemetry.Point, error)
	NodeIDs(ctx context.Context) ([]string, error)
}

// Config carries the server's dependencies.
type Config struct {
	Addr    string
	Writer  BatchQueuer
	Reader  QueryStore
	Version string
}

// Server routes HTTP requests to the ingestion, query, and UI handlers.
// It is safe for concurrent use.
type Server struct {
	writer  BatchQueuer
	reader  QueryStore
	version string

	mux *http.ServeMux
	srv *http.Server
	log *slog.Logger
}

// New constructs a Server with all routes registered on an internal mux.
func New(cfg *Config) *Server {
	s := &Server{
		writer:  cfg.Writer,
		reader:  cfg.Reader,
		version: cfg.Version,
		mux:     http.NewServeMux(),
		log:     logging.Component("http"),
	}
	s.routes()

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/probe", s.handleProbe)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ui", s.handleHome)
	// Node dashboards and charts; the path is parsed manually.
	s.mux.HandleFunc("/ui/node/", s.handleNode)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then stops accepting new connections
// and waits for in-flight requests. In-flight requests are not forcibly
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", "error", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a standard error body.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
