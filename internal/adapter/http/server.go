package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// SnapshotSource yields the most recent snapshot, or nil before the first run.
type SnapshotSource interface {
	Latest() *domain.Snapshot
}

// Namer resolves neighborhood ids to display names.
type Namer interface {
	Name(id string) string
}

// Server exposes health, readiness, and metrics endpoints plus read-only
// JSON views of the latest snapshot.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotSource
	names      Namer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /api snapshot routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, snapshots SnapshotSource, names Namer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		names:     names,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/profiles", s.withSnapshot(s.handleProfiles))
	mux.HandleFunc("GET /api/profiles/{id}", s.withSnapshot(s.handleProfile))
	mux.HandleFunc("GET /api/uncertainty", s.withSnapshot(s.handleUncertainty))
	mux.HandleFunc("GET /api/series/{field}", s.withSnapshot(s.handleSeries))
	mux.HandleFunc("GET /api/diagnostics", s.withSnapshot(s.handleDiagnostics))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
