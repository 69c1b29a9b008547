// Package web serves the read-only reporting API and index page.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/config"
	"github.com/JonMunkholm/retailetl/internal/metrics"
	appmw "github.com/JonMunkholm/retailetl/internal/web/middleware"
)

// Snapshotter supplies the dataset the views are computed from.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*analytics.Dataset, error)
}

// SnapshotFunc adapts a function to Snapshotter.
type SnapshotFunc func(ctx context.Context) (*analytics.Dataset, error)

func (f SnapshotFunc) Snapshot(ctx context.Context) (*analytics.Dataset, error) {
	return f(ctx)
}

// Server is the HTTP server for the reporting API.
type Server struct {
	source    Snapshotter
	analytics analytics.Config
	metrics   *metrics.Metrics
	cfg       config.ServerConfig
	limiter   *snapshotLimiter
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a Server. m may be nil, in which case /metrics is not served.
func NewServer(source Snapshotter, acfg analytics.Config, m *metrics.Metrics, cfg config.ServerConfig) *Server {
	s := &Server{
		source:    source,
		analytics: acfg,
		metrics:   m,
		cfg:       cfg,
		limiter:   newSnapshotLimiter(cfg.MaxConcurrentSnapshots, cfg.SnapshotWait),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(middleware.Compress(5))
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/tables", s.handleListTables)
		r.Get("/views", s.handleListViews)
		r.Get("/views/{name}", s.handleView)
	})
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then waits for in-flight snapshot
// reads to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if n := s.limiter.inFlight(); n > 0 {
		slog.Info("waiting for snapshot reads", "active", n)
	}
	return s.limiter.waitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
