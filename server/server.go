// Package server provides HTTP server management and lifecycle handling for the
// emergency reference service: middleware, API and asset routes, metrics
// exposition and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/giygas/emergency-reference/config"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler interfaces.HTTPHandler
	assets  http.Handler
	limiter *RateLimiter
	config  *config.Config
}

// NewServer creates a new server instance. assets serves every path the API
// does not claim; nil leaves those paths unrouted.
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler, assets http.Handler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		assets:  assets,
		limiter: NewRateLimiter(DefaultRate, DefaultCapacity),
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	logger := slog.Default()
	if logging.DefaultLoggingService != nil {
		logger = logging.DefaultLoggingService.Logger
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logger))
	s.router.Use(metrics.Metrics)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.limiter.Middleware)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	h := s.handler

	s.router.Get("/health", h.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Dataset browsing
		r.Get("/conditions", h.ListConditions)
		r.Get("/conditions/critical", h.CriticalConditions)
		r.Get("/conditions/{id}", h.GetCondition)
		r.Get("/specialties", h.ListSpecialties)
		r.Get("/suggestions", h.Suggestions)
		r.Post("/suggestions/navigate", h.NavigateSuggestions)

		// Calculators
		r.Post("/conditions/{id}/dosage", h.CalculateDosage)
		r.Post("/scores/{tool}", h.EvaluateScore)
		r.Post("/allergies/alternatives", h.AllergyAlternatives)

		// User state
		r.Get("/notes", h.ListNotes)
		r.Get("/notes/{id}", h.GetNote)
		r.Put("/notes/{id}", h.PutNote)
		r.Get("/favorites", h.ListFavorites)
		r.Post("/favorites/{id}/toggle", h.ToggleFavorite)
		r.Get("/recent-searches", h.ListRecentSearches)
		r.Post("/recent-searches", h.PushRecentSearch)
		r.Delete("/recent-searches", h.ClearRecentSearches)
		r.Post("/ui/{id}/{flag}/toggle", h.ToggleUIFlag)

		// Data management
		r.Get("/export", h.ExportData)
		r.Get("/export/notes", h.ExportNotes)
		r.Post("/import", h.ImportData)
		r.Delete("/data", h.ClearAllData)
	})

	if s.assets != nil {
		s.router.Handle("/*", s.assets)
	}
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	defer s.limiter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
