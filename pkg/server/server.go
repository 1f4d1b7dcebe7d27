// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout   chain document → diagram JSON
//	POST /v1/render   chain document → artifact (?format=svg|png|pdf|json)
//	POST /v1/hit      diagram + point → drop target
//	GET  /v1/plugins  plugin catalog
//	GET  /healthz     liveness and build info
//	GET  /metrics     Prometheus exposition (when configured)
//
// Chain documents are JSON unless the Content-Type names YAML or TOML.
// Identical concurrent requests are collapsed into one pipeline run.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/pedalboard/pkg/pipeline"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// DefaultMaxBody caps request bodies.
const DefaultMaxBody = 1 << 20

const shutdownTimeout = 10 * time.Second

// Config configures a Server. Runner is required; everything else has a
// usable default.
type Config struct {
	Runner   *pipeline.Runner
	Registry *registry.Registry
	Defaults pipeline.Options
	Logger   *log.Logger
	Metrics  http.Handler
	MaxBody  int64
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	registry *registry.Registry
	defaults pipeline.Options
	logger   *log.Logger
	maxBody  int64
	group    singleflight.Group
	router   chi.Router
}

// New builds a Server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		registry: cfg.Registry,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
		maxBody:  cfg.MaxBody,
	}
	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/plugins", s.handlePlugins)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/hit", s.handleHit)
	})
	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
