package handlers

import (
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/models"
	"github.com/ternarybob/medela/internal/services/pipeline"
)

// AnalyzeHandler accepts a multipart prescription image upload and runs the
// analysis pipeline.
type AnalyzeHandler struct {
	pipeline       *pipeline.Service
	maxUploadBytes int64
	logger         arbor.ILogger
}

// NewAnalyzeHandler creates the analyze upload handler
func NewAnalyzeHandler(pipelineService *pipeline.Service, config *common.Config, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:       pipelineService,
		maxUploadBytes: config.MaxUploadBytes(),
		logger:         logger,
	}
}

// HandleAnalyze handles POST /api/analyze (multipart form, field "image")
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// Cap the whole request body; a larger image never reaches the pipeline
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1024)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing 'image' form field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read uploaded image")
		return
	}

	image := &models.PrescriptionImage{
		Data:     data,
		MimeType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}

	h.logger.Info().
		Str("filename", image.Filename).
		Int("size_bytes", len(data)).
		Msg("Prescription upload received")

	result, err := h.pipeline.Analyze(r.Context(), image)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Analysis failed")
		WritePipelineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
