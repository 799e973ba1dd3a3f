// Package router provides HTTP routing configuration using Chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/cinema-pki/internal/api/handler"
	"github.com/remiblancher/cinema-pki/internal/api/middleware"
	"github.com/remiblancher/cinema-pki/internal/api/service"
	"github.com/remiblancher/cinema-pki/internal/profile"
)

// Config holds router configuration.
type Config struct {
	// Version is the server version reported by /health.
	Version string

	// StoreDir is the base directory holding generated hierarchies.
	StoreDir string

	// Profile is the issuance profile for hierarchy builds.
	// Nil means the built-in default.
	Profile *profile.Profile
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS)

	// Health endpoints
	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.StoreDir)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Hierarchy operations
	chainService := service.NewChainService(cfg.StoreDir, cfg.Profile)
	chainHandler := handler.NewChainHandler(chainService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chains", func(r chi.Router) {
			r.Post("/", chainHandler.Build)
			r.Get("/", chainHandler.List)
			r.Get("/{domain}", chainHandler.Get)
			r.Get("/{domain}/bundles/{leaf}", chainHandler.Bundle)
		})
	})

	return r
}
