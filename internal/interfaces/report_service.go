package interfaces

import (
	"context"

	"github.com/ternarybob/medela/internal/models"
)

// ReportService defines the interface for rendering and serving PDF reports
type ReportService interface {
	// Render builds the report document for an analyzed prescription and
	// writes it as a paginated A4 PDF under the reports directory.
	//
	// Returns:
	//   - *models.Report: id, filename and path of the written file
	//   - error: *models.RenderError on any layout or filesystem failure
	Render(ctx context.Context, prescription *models.Prescription, medicines []*models.MedicineInfo) (*models.Report, error)

	// Get resolves a previously rendered report by id. Returns an error if
	// the id is unknown or the file has been swept.
	Get(id string) (*models.Report, error)

	// BuildMarkdown returns the markdown document the PDF is rendered from,
	// used as the analysis summary.
	BuildMarkdown(prescription *models.Prescription, medicines []*models.MedicineInfo) string
}
