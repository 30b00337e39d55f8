// Package server exposes the scan pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build info
//	POST /v1/scan          scan a Blueprint from an inline snapshot
//	POST /v1/blueprints    list the Blueprints of an inline snapshot
//
// Snapshots are sent in the request body, either as a JSON object in
// "snapshot" or as TOML text in "snapshot_toml". Errors are returned as
// {"error": {"code": ..., "message": ...}} with the status derived from the
// error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/pipeline"
)

// Defaults for [Options].
const (
	DefaultScanTimeout  = 30 * time.Second
	DefaultMaxBodyBytes = 32 << 20
)

// Options configures a Server.
type Options struct {
	// Registry, when set, replaces the packages of posted snapshots.
	Registry     asset.Registry
	ScanTimeout  time.Duration
	MaxBodyBytes int64
	Logger       *log.Logger
}

// WithDefaults returns a copy of o with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.ScanTimeout <= 0 {
		o.ScanTimeout = DefaultScanTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Server serves scan requests through a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
}

// New creates a Server.
func New(runner *pipeline.Runner, opts Options) *Server {
	return &Server{runner: runner, opts: opts.WithDefaults()}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(middleware.RequestSize(s.opts.MaxBodyBytes))
		r.Post("/scan", s.handleScan)
		r.Post("/blueprints", s.handleBlueprints)
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.opts.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
