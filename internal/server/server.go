// Package server exposes the energy readings store as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j-veylop/geostar-dashboard/internal/cache"
	"github.com/j-veylop/geostar-dashboard/internal/db"
	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/models"
)

// Store is the query surface the handlers need.
type Store interface {
	OverviewStats(ctx context.Context, fromMs, toMs int64) (models.OverviewStats, error)
	BucketTotals(ctx context.Context, res models.Resolution, offsetMs, fromMs, toMs int64) ([]models.BucketTotal, error)
	DaySummary(ctx context.Context, fromMs, toMs int64) (models.DailySummary, error)
	HourlyBreakdown(ctx context.Context, offsetMs, fromMs, toMs int64) ([]models.HourlyBreakdown, error)
	CountReadings(ctx context.Context, q db.ReadingsQuery) (int, error)
	ListReadings(ctx context.Context, q db.ReadingsQuery) ([]models.EnergyReading, error)
	Gateways(ctx context.Context) ([]string, error)
}

// Options configures a Server.
type Options struct {
	Location *time.Location
	Cache    cache.Cache
	// RateLimit is requests per minute per client IP; zero disables limiting.
	RateLimit int
	// DefaultRangeDays is the trailing window used when the overview has no dates.
	DefaultRangeDays int
	Now              func() time.Time
}

// Server serves /api/overview, /api/daily and /api/readings.
type Server struct {
	store    Store
	loc      *time.Location
	cache    cache.Cache
	limit    int
	days     int
	now      func() time.Time
	registry *prometheus.Registry
	metrics  *metrics
}

// New creates a server over store.
func New(store Store, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Cache == nil {
		opts.Cache = cache.Noop{}
	}
	if opts.DefaultRangeDays <= 0 {
		opts.DefaultRangeDays = 7
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	reg := prometheus.NewRegistry()
	return &Server{
		store:    store,
		loc:      opts.Location,
		cache:    opts.Cache,
		limit:    opts.RateLimit,
		days:     opts.DefaultRangeDays,
		now:      opts.Now,
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.limit > 0 {
			r.Use(httprate.LimitByIP(s.limit, time.Minute))
		}
		r.Use(s.instrument)
		r.Get("/api/overview", s.cached(s.handleOverview))
		r.Get("/api/daily", s.cached(s.handleDaily))
		r.Get("/api/readings", s.cached(s.handleReadings))
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down api server: %w", err)
		}
		logger.Info("api server stopped")
		return nil
	}
}
