// Package server hosts the HTTP surface: routing, middleware and the
// lifecycle of the underlying http.Server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/medela/internal/app"
)

// Server wraps the HTTP server and routes
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
}

// New creates a server from a wired application
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		router: http.NewServeMux(),
	}

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
		// Analysis requests hold the connection while extraction and
		// per-medicine lookups run, so the write timeout is generous.
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	return s
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	log := s.app.Logger
	log.Info().
		Str("address", s.server.Addr).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.server.Addr
}
