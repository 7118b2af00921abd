package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/footprint/internal/auth"
	"github.com/ignite/footprint/internal/config"
)

// Server represents the API server
type Server struct {
	config      config.ServerConfig
	handlers    *Handlers
	router      *chi.Mux
	server      *http.Server
	authManager *auth.Manager
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, handlers *Handlers, authManager *auth.Manager) *Server {
	return &Server{
		config:      cfg,
		handlers:    handlers,
		router:      SetupRoutes(handlers, authManager),
		authManager: authManager,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.router
}
