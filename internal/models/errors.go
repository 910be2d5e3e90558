package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline stage failures
var (
	// ErrInvalidInput means the upload was missing, empty, oversized, or not an image.
	// No external calls are made when this is returned.
	ErrInvalidInput = errors.New("invalid input: not a readable prescription image")

	// ErrNoMedicinesFound means extraction succeeded but yielded zero medicine names.
	// Lookup and render are not invoked.
	ErrNoMedicinesFound = errors.New("no medicines found in prescription")
)

// ExtractionError wraps a failure in the prescription extraction stage
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("prescription extraction failed: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// NewExtractionError wraps a cause as an extraction-stage failure
func NewExtractionError(cause error) *ExtractionError {
	return &ExtractionError{Cause: cause}
}

// LookupError means every medicine lookup in the request failed.
// Individual failures become partial records; only a 100% failure
// rate surfaces this error, and render is skipped.
type LookupError struct {
	Names []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("all %d medicine lookups failed", len(e.Names))
}

// NewLookupError builds the aggregate error for a fully failed batch
func NewLookupError(names []string) *LookupError {
	return &LookupError{Names: names}
}

// RenderError wraps a failure in the report render stage
type RenderError struct {
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("report render failed: %v", e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// NewRenderError wraps a cause as a render-stage failure
func NewRenderError(cause error) *RenderError {
	return &RenderError{Cause: cause}
}
