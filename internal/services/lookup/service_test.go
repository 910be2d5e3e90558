package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/models"
	"github.com/ternarybob/medela/internal/services/llm"
)

type mockFetcher struct {
	markdown string
	pageURL  string
	err      error
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	return m.markdown, m.pageURL, nil
}

type mockGenerator struct {
	response string
	err      error
	prompts  []string
}

func (m *mockGenerator) GenerateContent(_ context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error) {
	m.prompts = append(m.prompts, request.Prompt)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.ContentResponse{Text: m.response, Provider: llm.ProviderGemini}, nil
}

func testConfig() *common.Config {
	config := common.NewDefaultConfig()
	config.Lookup.RateLimit = "1ms" // Keep tests fast
	return config
}

func TestLookup_Success(t *testing.T) {
	fetcher := &mockFetcher{
		markdown: "# Paracetamol\nPain reliever and fever reducer.",
		pageURL:  "https://www.1mg.com/drugs/paracetamol",
	}
	gen := &mockGenerator{response: `{
		"medicine_name": "Paracetamol",
		"description": "Pain reliever and fever reducer",
		"key_benefits": ["Relieves pain", "Reduces fever"],
		"directions": "Take with water after food",
		"safety_info": ["Do not exceed 4g per day"],
		"relevant_info": "Store below 25C"
	}`}

	service := NewServiceWithFetcher(fetcher, gen, testConfig(), common.GetLogger())

	info, err := service.Lookup(context.Background(), "paracetamol")
	require.NoError(t, err)

	assert.Equal(t, "Paracetamol", info.Name)
	assert.Equal(t, models.LookupStatusOK, info.Status)
	assert.Equal(t, "https://www.1mg.com/drugs/paracetamol", info.SourceURL)
	assert.Len(t, info.KeyBenefits, 2)
	assert.Equal(t, "Take with water after food", info.Directions)
}

func TestLookup_PromptCarriesPageContent(t *testing.T) {
	fetcher := &mockFetcher{markdown: "unique-page-marker", pageURL: "https://drugs.com/x"}
	gen := &mockGenerator{response: `{"medicine_name": "x", "description": "d"}`}

	service := NewServiceWithFetcher(fetcher, gen, testConfig(), common.GetLogger())

	_, err := service.Lookup(context.Background(), "aspirin")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "unique-page-marker")
	assert.Contains(t, gen.prompts[0], "aspirin")
}

func TestLookup_EmptyFieldsYieldEmptyStatus(t *testing.T) {
	fetcher := &mockFetcher{markdown: "nothing useful", pageURL: "https://example.com"}
	gen := &mockGenerator{response: `{"medicine_name": "", "description": "", "key_benefits": [], "directions": "", "safety_info": [], "relevant_info": ""}`}

	service := NewServiceWithFetcher(fetcher, gen, testConfig(), common.GetLogger())

	info, err := service.Lookup(context.Background(), "obscurol")
	require.NoError(t, err)

	assert.Equal(t, models.LookupStatusEmpty, info.Status)
	assert.Equal(t, "obscurol", info.Name) // Falls back to the requested name
}

func TestLookup_FetchFailure(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("navigation timeout")}
	gen := &mockGenerator{}

	service := NewServiceWithFetcher(fetcher, gen, testConfig(), common.GetLogger())

	_, err := service.Lookup(context.Background(), "paracetamol")
	require.Error(t, err)
	assert.Empty(t, gen.prompts, "LLM should not be called when fetch fails")
}

func TestLookup_MalformedExtraction(t *testing.T) {
	fetcher := &mockFetcher{markdown: "content", pageURL: "https://example.com"}
	gen := &mockGenerator{response: "not json at all"}

	service := NewServiceWithFetcher(fetcher, gen, testConfig(), common.GetLogger())

	_, err := service.Lookup(context.Background(), "paracetamol")
	assert.Error(t, err)
}

func TestStripJSONFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences(`{"a":1}`))
}
