package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/interfaces"
)

// ReportHandler serves generated PDF reports for download
type ReportHandler struct {
	reports interfaces.ReportService
	logger  arbor.ILogger
}

// NewReportHandler creates the report download handler
func NewReportHandler(reports interfaces.ReportService, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// HandleDownload handles GET /api/reports/{id}
func (h *ReportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "missing report id")
		return
	}

	report, err := h.reports.Get(id)
	if err != nil {
		h.logger.Debug().Err(err).Str("report_id", id).Msg("Report not found")
		WriteError(w, http.StatusNotFound, "report not found or expired")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	http.ServeFile(w, r, report.Path)
}
