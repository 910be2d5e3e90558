package interfaces

import (
	"context"

	"github.com/ternarybob/medela/internal/models"
)

// ExtractionService defines the interface for turning a prescription image
// into structured prescription content. Implementations use a multimodal
// LLM provider; tests substitute a mock.
type ExtractionService interface {
	// Extract analyzes a prescription image and returns its structured content.
	// Medicine names in the result are cleaned (formulation prefixes and dosage
	// strengths stripped) and timing codes decoded into schedules.
	//
	// Returns:
	//   - *models.Prescription: extracted content, medicines in written order
	//   - error: *models.ExtractionError on provider or parse failure;
	//     models.ErrNoMedicinesFound when the image yields no medicine names
	Extract(ctx context.Context, image *models.PrescriptionImage) (*models.Prescription, error)
}
