package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/interfaces"
	"github.com/ternarybob/medela/internal/models"
	"github.com/ternarybob/medela/internal/services/llm"
	"github.com/ternarybob/medela/internal/templates"
)

// ContentGenerator is the slice of the provider factory this service needs
type ContentGenerator interface {
	GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error)
}

// Service extracts structured prescription content from an image using a
// multimodal LLM with structured JSON output.
type Service struct {
	generator    ContentGenerator
	model        string
	maxTokens    int
	templatesDir string
	logger       arbor.ILogger
}

// NewService creates an extraction service backed by the provider factory
func NewService(generator ContentGenerator, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		generator:    generator,
		model:        "", // Empty model uses the configured default provider
		maxTokens:    config.Claude.MaxTokens,
		templatesDir: config.LLM.TemplatesDir,
		logger:       logger,
	}
}

// Compile-time interface check
var _ interfaces.ExtractionService = (*Service)(nil)

// rawPrescription mirrors the JSON shape requested from the model
type rawPrescription struct {
	PatientInfo struct {
		Name    string `json:"name"`
		Age     string `json:"age"`
		Gender  string `json:"gender"`
		ID      string `json:"id"`
		Contact string `json:"contact"`
		Vitals  struct {
			BloodPressure string `json:"blood_pressure"`
			Weight        string `json:"weight"`
			Temperature   string `json:"temperature"`
			Pulse         string `json:"pulse"`
		} `json:"vitals"`
	} `json:"patient_info"`
	DoctorInfo struct {
		Name           string `json:"name"`
		Qualifications string `json:"qualifications"`
		Registration   string `json:"registration"`
		Clinic         string `json:"clinic"`
		Contact        string `json:"contact"`
	} `json:"doctor_info"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
	Medicines []struct {
		FullName            string `json:"full_name"`
		Timing              string `json:"timing"`
		Duration            string `json:"duration"`
		SpecialInstructions string `json:"special_instructions"`
	} `json:"medicines"`
}

// Extract analyzes a prescription image and returns its structured content
func (s *Service) Extract(ctx context.Context, image *models.PrescriptionImage) (*models.Prescription, error) {
	template, err := templates.GetTemplate("extraction", s.templatesDir)
	if err != nil {
		return nil, models.NewExtractionError(fmt.Errorf("failed to load extraction template: %w", err))
	}

	response, err := s.generator.GenerateContent(ctx, &llm.ContentRequest{
		Prompt: template.Prompt,
		Images: []llm.ImageAttachment{
			{Data: image.Data, MimeType: image.MimeType},
		},
		Model:        s.model,
		MaxTokens:    s.maxTokens,
		OutputSchema: template.Schema,
	})
	if err != nil {
		return nil, models.NewExtractionError(err)
	}

	var raw rawPrescription
	cleaned := cleanJSONResponse(response.Text)
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		s.logger.Warn().
			Err(err).
			Int("response_chars", len(cleaned)).
			Msg("Failed to parse extraction response as JSON")
		return nil, models.NewExtractionError(fmt.Errorf("malformed extraction response: %w", err))
	}

	prescription := convertRaw(&raw)

	if len(prescription.Medicines) == 0 {
		return nil, models.ErrNoMedicinesFound
	}

	s.logger.Info().
		Str("provider", string(response.Provider)).
		Int("medicines", len(prescription.Medicines)).
		Msg("Prescription extracted")

	return prescription, nil
}

// convertRaw maps the model's JSON shape onto the domain model, cleaning
// medicine names and decoding timing codes. Entries whose name cleans to
// nothing are dropped.
func convertRaw(raw *rawPrescription) *models.Prescription {
	prescription := &models.Prescription{
		Patient: models.PatientInfo{
			Name:    raw.PatientInfo.Name,
			Age:     raw.PatientInfo.Age,
			Gender:  raw.PatientInfo.Gender,
			ID:      raw.PatientInfo.ID,
			Contact: raw.PatientInfo.Contact,
			Vitals: models.Vitals{
				BloodPressure: raw.PatientInfo.Vitals.BloodPressure,
				Weight:        raw.PatientInfo.Vitals.Weight,
				Temperature:   raw.PatientInfo.Vitals.Temperature,
				Pulse:         raw.PatientInfo.Vitals.Pulse,
			},
		},
		Doctor: models.DoctorInfo{
			Name:           raw.DoctorInfo.Name,
			Qualifications: raw.DoctorInfo.Qualifications,
			Registration:   raw.DoctorInfo.Registration,
			Clinic:         raw.DoctorInfo.Clinic,
			Contact:        raw.DoctorInfo.Contact,
		},
		Date:  raw.Date,
		Notes: raw.Notes,
	}

	for _, med := range raw.Medicines {
		cleanName := cleanMedicineName(med.FullName)
		if cleanName == "" {
			continue
		}

		prescription.Medicines = append(prescription.Medicines, models.PrescribedMedicine{
			RawName:      med.FullName,
			Name:         cleanName,
			Schedule:     parseTimingCode(med.Timing),
			Duration:     med.Duration,
			Instructions: med.SpecialInstructions,
		})
	}

	return prescription
}
