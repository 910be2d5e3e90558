package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/medela/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WritePipelineError maps the pipeline error taxonomy onto HTTP statuses:
// invalid input 400, extraction failure 502, no medicines 422, total lookup
// failure 502, render failure 500.
func WritePipelineError(w http.ResponseWriter, err error) error {
	var (
		extractionErr *models.ExtractionError
		lookupErr     *models.LookupError
		renderErr     *models.RenderError
	)

	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNoMedicinesFound):
		return WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &extractionErr):
		return WriteError(w, http.StatusBadGateway, extractionErr.Error())
	case errors.As(err, &lookupErr):
		return WriteError(w, http.StatusBadGateway, lookupErr.Error())
	case errors.As(err, &renderErr):
		return WriteError(w, http.StatusInternalServerError, renderErr.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, "analysis failed")
	}
}
