// Package httpapi exposes semantic-map ingest/search/reduce operations
// over HTTP, grounded on the teacher's pkg/api/rest.Server (routing,
// middleware stacking, graceful shutdown shape) but calling the core
// reduction/embedding library directly instead of proxying to a gRPC
// backend — see DESIGN.md for why the gRPC layer was dropped.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kestrelhq/semanticmap/pkg/config"
	"github.com/kestrelhq/semanticmap/pkg/httpapi/cache"
	"github.com/kestrelhq/semanticmap/pkg/httpapi/middleware"
	"github.com/kestrelhq/semanticmap/pkg/observability"
	"github.com/kestrelhq/semanticmap/pkg/store"
)

// Server is the semantic map HTTP API server.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	cache   *cache.LRUCache
	metrics *observability.Metrics
	logger  *observability.Logger

	router     chi.Router
	httpServer *http.Server
}

// NewServer wires a Server from configuration, an opened store, and
// shared observability instances.
func NewServer(cfg *config.Config, st *store.Store, metrics *observability.Metrics, logger *observability.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		metrics: metrics,
		logger:  logger,
	}
	if cfg.Cache.Enabled {
		s.cache = cache.NewLRUCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	s.router = chi.NewRouter()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(s.loggingMiddleware)

	if s.cfg.Server.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
			Enabled:        true,
			RequestsPerSec: s.cfg.Server.RateLimitPerSec,
			Burst:          s.cfg.Server.RateLimitBurst,
		})
		s.router.Use(middleware.RateLimit(limiter))
	}

	if s.cfg.Server.AuthEnabled {
		authCfg := middleware.AuthConfig{
			JWTSecret:   s.cfg.Server.JWTSecret,
			Enabled:     true,
			PublicPaths: s.cfg.Server.PublicPaths,
		}
		s.router.Use(middleware.Auth(authCfg))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/v1/health", s.handleHealth)
	s.router.Get("/v1/stats", s.handleStats)
	s.router.Post("/v1/ingest", s.handleIngest)
	s.router.Get("/v1/search", s.handleSearch)
	s.router.Post("/v1/reduce", s.handleReduce)
}

// loggingMiddleware records request duration and status via the shared
// Prometheus metrics and access logger, mirroring the teacher's
// loggingMiddleware/AccessLogger pairing.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		status := fmt.Sprintf("%d", wrapped.Status())
		s.metrics.RecordRequest(r.URL.Path, status, duration)
		s.logger.Info("request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.Status(),
			"duration": duration,
		})
	})
}

// Start runs the HTTP server until it is stopped or fails.
func (s *Server) Start() error {
	s.logger.Infof("starting semanticmap HTTP API on %s", s.cfg.Server.Address())
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down semanticmap HTTP API")
	return s.httpServer.Shutdown(ctx)
}
