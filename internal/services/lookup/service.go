package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/interfaces"
	"github.com/ternarybob/medela/internal/models"
	"github.com/ternarybob/medela/internal/services/llm"
	"github.com/ternarybob/medela/internal/templates"
	"golang.org/x/time/rate"
)

// ContentGenerator is the slice of the provider factory this service needs
type ContentGenerator interface {
	GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error)
}

// PageFetcher captures a medicine reference page as markdown
type PageFetcher interface {
	Fetch(ctx context.Context, name string) (markdown string, pageURL string, err error)
}

// Service looks up public information for one medicine: browser search and
// capture, then LLM field extraction from the page markdown. Lookups are
// rate-limited to stay polite with search engines and reference sites.
type Service struct {
	fetcher      PageFetcher
	generator    ContentGenerator
	limiter      *rate.Limiter
	templatesDir string
	logger       arbor.ILogger
}

// NewService creates a lookup service on top of an initialized browser pool
func NewService(pool *BrowserPool, generator ContentGenerator, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		fetcher:      newPageFetcher(pool, &config.Lookup, logger),
		generator:    generator,
		limiter:      rate.NewLimiter(rate.Every(config.LookupInterval()), 1),
		templatesDir: config.LLM.TemplatesDir,
		logger:       logger,
	}
}

// NewServiceWithFetcher creates a lookup service with a custom fetcher (tests)
func NewServiceWithFetcher(fetcher PageFetcher, generator ContentGenerator, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		fetcher:      fetcher,
		generator:    generator,
		limiter:      rate.NewLimiter(rate.Every(config.LookupInterval()), 1),
		templatesDir: config.LLM.TemplatesDir,
		logger:       logger,
	}
}

// Compile-time interface check
var _ interfaces.LookupService = (*Service)(nil)

// rawMedicineInfo mirrors the JSON shape requested from the model
type rawMedicineInfo struct {
	MedicineName string   `json:"medicine_name"`
	Description  string   `json:"description"`
	KeyBenefits  []string `json:"key_benefits"`
	Directions   string   `json:"directions"`
	SafetyInfo   []string `json:"safety_info"`
	RelevantInfo string   `json:"relevant_info"`
}

// Lookup gathers public information for one medicine name
func (s *Service) Lookup(ctx context.Context, name string) (*models.MedicineInfo, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	markdown, pageURL, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("medicine", name).Msg("Lookup fetch failed")
		return nil, fmt.Errorf("lookup fetch for %q: %w", name, err)
	}

	info, err := s.extractFields(ctx, name, markdown)
	if err != nil {
		s.logger.Warn().Err(err).Str("medicine", name).Msg("Lookup extraction failed")
		return nil, fmt.Errorf("lookup extraction for %q: %w", name, err)
	}

	info.SourceURL = pageURL
	if info.HasContent() {
		info.Status = models.LookupStatusOK
	} else {
		info.Status = models.LookupStatusEmpty
	}

	s.logger.Info().
		Str("medicine", name).
		Str("status", info.Status).
		Str("source", pageURL).
		Msg("Medicine lookup complete")

	return info, nil
}

// extractFields asks the LLM for structured fields from page markdown
func (s *Service) extractFields(ctx context.Context, name string, markdown string) (*models.MedicineInfo, error) {
	template, err := templates.GetTemplate("lookup", s.templatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup template: %w", err)
	}

	prompt := template.Render(map[string]string{
		"medicine_name": name,
		"content":       markdown,
	})

	response, err := s.generator.GenerateContent(ctx, &llm.ContentRequest{
		Prompt:       prompt,
		OutputSchema: template.Schema,
	})
	if err != nil {
		return nil, err
	}

	var raw rawMedicineInfo
	if err := json.Unmarshal([]byte(stripJSONFences(response.Text)), &raw); err != nil {
		return nil, fmt.Errorf("malformed lookup response: %w", err)
	}

	// The page may name the medicine more precisely than the prescription did
	resolvedName := strings.TrimSpace(raw.MedicineName)
	if resolvedName == "" {
		resolvedName = name
	}

	return &models.MedicineInfo{
		Name:        resolvedName,
		Description: raw.Description,
		KeyBenefits: raw.KeyBenefits,
		Directions:  raw.Directions,
		SafetyInfo:  raw.SafetyInfo,
		OtherInfo:   raw.RelevantInfo,
	}, nil
}

// stripJSONFences removes markdown code fences a model may wrap around JSON
func stripJSONFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
