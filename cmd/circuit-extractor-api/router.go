// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical/circuit-extractor/cmd/circuit-extractor-api/handlers"
	"github.com/spherical/circuit-extractor/cmd/circuit-extractor-api/middleware"
	"github.com/spherical/circuit-extractor/internal/config"
	"github.com/spherical/circuit-extractor/internal/observability"
	"github.com/spherical/circuit-extractor/internal/process"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"circuit-extractor"}`))
	})

	// Nothing external to wait for; ready as soon as the router serves.
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	svc := process.NewService(logger, cfg.Processing)
	processHandler := handlers.NewProcessHandler(logger, svc)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/process", processHandler.Process)
		r.Post("/inspect", processHandler.Inspect)
	})

	return r
}
