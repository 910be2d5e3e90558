package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/interfaces"
	"github.com/ternarybob/medela/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Image MIME types accepted for prescription uploads
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Service orchestrates the analysis pipeline: intake validation,
// prescription extraction, per-medicine lookup and report render.
// Strictly linear; nothing survives the request except the report file.
type Service struct {
	extraction     interfaces.ExtractionService
	lookup         interfaces.LookupService
	report         interfaces.ReportService
	maxUploadBytes int64
	summaryMD      goldmark.Markdown
	logger         arbor.ILogger
}

// NewService wires the pipeline from its stage services
func NewService(
	extraction interfaces.ExtractionService,
	lookup interfaces.LookupService,
	report interfaces.ReportService,
	config *common.Config,
	logger arbor.ILogger,
) *Service {
	return &Service{
		extraction:     extraction,
		lookup:         lookup,
		report:         report,
		maxUploadBytes: config.MaxUploadBytes(),
		summaryMD:      goldmark.New(goldmark.WithExtensions(extension.Table)),
		logger:         logger,
	}
}

// Analyze runs the full pipeline for one uploaded prescription image
func (s *Service) Analyze(ctx context.Context, image *models.PrescriptionImage) (*models.AnalysisResult, error) {
	// Stage 1: intake validation. Fails before any external call.
	if err := s.validateImage(image); err != nil {
		return nil, err
	}

	// Stage 2: prescription extraction
	prescription, err := s.extraction.Extract(ctx, image)
	if err != nil {
		return nil, err
	}

	names := dedupeNames(prescription.MedicineNames())

	s.logger.Info().
		Int("medicines", len(names)).
		Msg("Starting medicine lookups")

	// Stage 3: per-medicine lookup. Failures become partial records;
	// only a fully failed batch aborts the pipeline.
	medicines := make([]*models.MedicineInfo, 0, len(names))
	failures := 0
	for _, name := range names {
		info, err := s.lookup.Lookup(ctx, name)
		if err != nil {
			failures++
			medicines = append(medicines, models.NewFailedMedicineInfo(name))
			continue
		}
		medicines = append(medicines, info)
	}

	if len(names) > 0 && failures == len(names) {
		return nil, models.NewLookupError(names)
	}

	// Stage 4: report render
	rendered, err := s.report.Render(ctx, prescription, medicines)
	if err != nil {
		return nil, err
	}

	summary := s.report.BuildMarkdown(prescription, medicines)

	return &models.AnalysisResult{
		ReportID:     rendered.ID,
		ReportURL:    "/api/reports/" + rendered.ID,
		Prescription: prescription,
		Medicines:    medicines,
		Summary:      summary,
		SummaryHTML:  s.renderSummaryHTML(summary),
	}, nil
}

// validateImage enforces presence, non-emptiness, the size cap and an image
// MIME type. The MIME type is sniffed from content when the upload did not
// declare one.
func (s *Service) validateImage(image *models.PrescriptionImage) error {
	if image == nil || len(image.Data) == 0 {
		return fmt.Errorf("%w: no image data", models.ErrInvalidInput)
	}

	if s.maxUploadBytes > 0 && int64(len(image.Data)) > s.maxUploadBytes {
		return fmt.Errorf("%w: image exceeds %d byte limit", models.ErrInvalidInput, s.maxUploadBytes)
	}

	mimeType := strings.ToLower(strings.TrimSpace(image.MimeType))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image.Data)
	}
	// Strip any parameters (e.g. "; charset=")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	if !allowedImageTypes[mimeType] {
		return fmt.Errorf("%w: unsupported content type %q", models.ErrInvalidInput, mimeType)
	}

	image.MimeType = mimeType
	return nil
}

// renderSummaryHTML converts the markdown summary to HTML for the widget
func (s *Service) renderSummaryHTML(summary string) string {
	var buf bytes.Buffer
	if err := s.summaryMD.Convert([]byte(summary), &buf); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to render summary HTML")
		return ""
	}
	return buf.String()
}

// dedupeNames removes duplicate names preserving first-occurrence order,
// so report ordering stays deterministic.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	deduped := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, name)
	}
	return deduped
}
