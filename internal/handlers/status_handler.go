package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
)

// StatusHandler serves health, version and sanitized config endpoints
type StatusHandler struct {
	config    *common.Config
	logger    arbor.ILogger
	startTime time.Time
}

// NewStatusHandler creates the status handler
func NewStatusHandler(config *common.Config, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:    config,
		logger:    logger,
		startTime: time.Now(),
	}
}

// HandleHealth handles GET /api/health
func (h *StatusHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "medela",
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleVersion handles GET /api/version
func (h *StatusHandler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// HandleConfig handles GET /api/config. API keys never leave the server.
func (h *StatusHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": h.config.Environment,
		"server": map[string]interface{}{
			"host":          h.config.Server.Host,
			"port":          h.config.Server.Port,
			"max_upload_mb": h.config.Server.MaxUploadMB,
		},
		"llm": map[string]interface{}{
			"default_provider": h.config.LLM.DefaultProvider,
			"gemini_model":     h.config.Gemini.Model,
			"claude_model":     h.config.Claude.Model,
		},
		"lookup": map[string]interface{}{
			"preferred_domains": h.config.Lookup.PreferredDomains,
			"pool_size":         h.config.Lookup.PoolSize,
			"rate_limit":        h.config.Lookup.RateLimit,
		},
		"reports": map[string]interface{}{
			"retention":        h.config.Reports.Retention,
			"cleanup_schedule": h.config.Reports.CleanupSchedule,
		},
	})
}
