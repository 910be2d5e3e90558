package server

import (
	"github.com/ternarybob/medela/internal/handlers"
)

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	pageHandler := handlers.NewPageHandler(s.app.Logger)
	analyzeHandler := handlers.NewAnalyzeHandler(s.app.Pipeline, s.app.Config, s.app.Logger)
	reportHandler := handlers.NewReportHandler(s.app.Reports, s.app.Logger)
	statusHandler := handlers.NewStatusHandler(s.app.Config, s.app.Logger)

	// Pages
	s.router.HandleFunc("/", s.withMiddleware(pageHandler.ServePage("index.html", "home")))
	s.router.HandleFunc("/static/", s.withMiddleware(pageHandler.StaticFileHandler))

	// API
	s.router.HandleFunc("/api/analyze", s.withMiddleware(analyzeHandler.HandleAnalyze))
	s.router.HandleFunc("/api/reports/", s.withMiddleware(reportHandler.HandleDownload))
	s.router.HandleFunc("/api/health", s.withMiddleware(statusHandler.HandleHealth))
	s.router.HandleFunc("/api/version", s.withMiddleware(statusHandler.HandleVersion))
	s.router.HandleFunc("/api/config", s.withMiddleware(statusHandler.HandleConfig))
}
