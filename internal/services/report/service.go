package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/interfaces"
	"github.com/ternarybob/medela/internal/models"
)

// Report ids are "rpt_" + uuid; anything else is rejected before touching
// the filesystem.
var reportIDRegex = regexp.MustCompile(`^rpt_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Service renders prescription reports as PDF files under the reports
// directory and resolves them by id for download.
type Service struct {
	reportsDir string
	logger     arbor.ILogger
}

// NewService creates a report service, ensuring the reports directory exists
func NewService(config *common.Config, logger arbor.ILogger) (*Service, error) {
	dir, err := filepath.Abs(config.Reports.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reports directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	return &Service{
		reportsDir: dir,
		logger:     logger,
	}, nil
}

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// BuildMarkdown returns the markdown document the PDF is rendered from
func (s *Service) BuildMarkdown(prescription *models.Prescription, medicines []*models.MedicineInfo) string {
	return buildMarkdown(prescription, medicines)
}

// Render builds the report document and writes it as a validated A4 PDF
func (s *Service) Render(ctx context.Context, prescription *models.Prescription, medicines []*models.MedicineInfo) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewRenderError(err)
	}

	markdown := buildMarkdown(prescription, medicines)

	pdfBytes, err := renderMarkdownPDF(markdown)
	if err != nil {
		return nil, models.NewRenderError(err)
	}

	id := common.NewReportID()
	filename := id + ".pdf"
	path := filepath.Join(s.reportsDir, filename)

	if err := os.WriteFile(path, pdfBytes, 0644); err != nil {
		return nil, models.NewRenderError(fmt.Errorf("failed to write report file: %w", err))
	}

	// Validate the written file; a corrupt report must not reach the user
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		os.Remove(path)
		return nil, models.NewRenderError(fmt.Errorf("report failed PDF validation: %w", err))
	}

	s.logger.Info().
		Str("report_id", id).
		Int("size_bytes", len(pdfBytes)).
		Int("medicines", len(medicines)).
		Msg("Report rendered")

	return &models.Report{
		ID:        id,
		Filename:  filename,
		Path:      path,
		SizeBytes: int64(len(pdfBytes)),
		CreatedAt: time.Now(),
	}, nil
}

// Get resolves a previously rendered report by id
func (s *Service) Get(id string) (*models.Report, error) {
	if !reportIDRegex.MatchString(id) {
		return nil, fmt.Errorf("invalid report id")
	}

	path := filepath.Join(s.reportsDir, id+".pdf")
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("report not found: %w", err)
	}

	return &models.Report{
		ID:        id,
		Filename:  id + ".pdf",
		Path:      path,
		SizeBytes: info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// Dir returns the absolute reports directory
func (s *Service) Dir() string {
	return s.reportsDir
}
