package interfaces

import (
	"context"

	"github.com/ternarybob/medela/internal/models"
)

// LookupService defines the interface for gathering public information about
// a single medicine. The interface is deliberately narrow: the browser-driven
// implementation is the most fragile part of the pipeline, and callers (and
// tests) depend only on this contract.
type LookupService interface {
	// Lookup gathers public information for one medicine name.
	//
	// Returns:
	//   - *models.MedicineInfo: populated record with Status "ok" or "empty"
	//   - error: non-nil when the lookup failed outright; the caller converts
	//     failures into partial records and continues
	Lookup(ctx context.Context, name string) (*models.MedicineInfo, error)
}
