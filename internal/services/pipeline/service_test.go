package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/models"
)

// mockExtraction returns a canned prescription or error and records calls
type mockExtraction struct {
	prescription *models.Prescription
	err          error
	calls        int
}

func (m *mockExtraction) Extract(_ context.Context, _ *models.PrescriptionImage) (*models.Prescription, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.prescription, nil
}

// mockLookup maps names to results; unmapped names fail
type mockLookup struct {
	results map[string]*models.MedicineInfo
	calls   []string
}

func (m *mockLookup) Lookup(_ context.Context, name string) (*models.MedicineInfo, error) {
	m.calls = append(m.calls, name)
	if info, ok := m.results[name]; ok {
		return info, nil
	}
	return nil, errors.New("lookup failed")
}

// mockReport renders into an in-memory report and records the inputs
type mockReport struct {
	err      error
	rendered []*models.MedicineInfo
	calls    int
}

func (m *mockReport) Render(_ context.Context, _ *models.Prescription, medicines []*models.MedicineInfo) (*models.Report, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	m.rendered = medicines
	return &models.Report{
		ID:        "rpt_00000000-0000-0000-0000-000000000001",
		Filename:  "rpt_00000000-0000-0000-0000-000000000001.pdf",
		CreatedAt: time.Now(),
	}, nil
}

func (m *mockReport) Get(id string) (*models.Report, error) {
	return nil, errors.New("not implemented")
}

func (m *mockReport) BuildMarkdown(prescription *models.Prescription, medicines []*models.MedicineInfo) string {
	summary := "# Prescription Report\n"
	for _, info := range medicines {
		summary += fmt.Sprintf("## %s\n%s\n", info.Name, info.Description)
	}
	return summary
}

func prescriptionWith(names ...string) *models.Prescription {
	p := &models.Prescription{
		Patient: models.PatientInfo{Name: "John Doe"},
	}
	for _, name := range names {
		p.Medicines = append(p.Medicines, models.PrescribedMedicine{RawName: name, Name: name})
	}
	return p
}

func fullInfo(name string) *models.MedicineInfo {
	return &models.MedicineInfo{
		Name:        name,
		Description: "description of " + name,
		KeyBenefits: []string{"benefit"},
		Status:      models.LookupStatusOK,
	}
}

func pngImage() *models.PrescriptionImage {
	// Real PNG magic so content sniffing recognizes it
	return &models.PrescriptionImage{
		Data:     []byte("\x89PNG\r\n\x1a\nrest-of-image"),
		MimeType: "image/png",
		Filename: "rx.png",
	}
}

func newPipeline(ext *mockExtraction, look *mockLookup, rep *mockReport) *Service {
	return NewService(ext, look, rep, common.NewDefaultConfig(), common.GetLogger())
}

func TestAnalyze_InvalidInputMakesNoCalls(t *testing.T) {
	tests := []struct {
		name  string
		image *models.PrescriptionImage
	}{
		{name: "nil image", image: nil},
		{name: "empty data", image: &models.PrescriptionImage{MimeType: "image/png"}},
		{name: "not an image", image: &models.PrescriptionImage{Data: []byte("%PDF-1.4 not an image"), MimeType: "application/pdf"}},
		{name: "unsniffable bytes", image: &models.PrescriptionImage{Data: []byte("plain text content")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &mockExtraction{prescription: prescriptionWith("paracetamol")}
			look := &mockLookup{results: map[string]*models.MedicineInfo{}}
			rep := &mockReport{}

			_, err := newPipeline(ext, look, rep).Analyze(context.Background(), tt.image)

			assert.ErrorIs(t, err, models.ErrInvalidInput)
			assert.Zero(t, ext.calls, "extraction must not run on invalid input")
			assert.Empty(t, look.calls, "lookup must not run on invalid input")
			assert.Zero(t, rep.calls, "render must not run on invalid input")
		})
	}
}

func TestAnalyze_OversizedImageRejected(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Server.MaxUploadMB = 1

	ext := &mockExtraction{}
	service := NewService(ext, &mockLookup{}, &mockReport{}, config, common.GetLogger())

	big := &models.PrescriptionImage{
		Data:     append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 2*1024*1024)...),
		MimeType: "image/png",
	}

	_, err := service.Analyze(context.Background(), big)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, ext.calls)
}

func TestAnalyze_NoMedicinesFoundSkipsLookupAndRender(t *testing.T) {
	ext := &mockExtraction{err: models.ErrNoMedicinesFound}
	look := &mockLookup{}
	rep := &mockReport{}

	_, err := newPipeline(ext, look, rep).Analyze(context.Background(), pngImage())

	assert.ErrorIs(t, err, models.ErrNoMedicinesFound)
	assert.Empty(t, look.calls)
	assert.Zero(t, rep.calls)
}

func TestAnalyze_ExtractionErrorPropagates(t *testing.T) {
	ext := &mockExtraction{err: models.NewExtractionError(errors.New("provider down"))}

	_, err := newPipeline(ext, &mockLookup{}, &mockReport{}).Analyze(context.Background(), pngImage())

	var extractionErr *models.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestAnalyze_MixedLookupBatchProducesPartialRecords(t *testing.T) {
	ext := &mockExtraction{prescription: prescriptionWith("paracetamol", "ibuprofen", "azithromycin")}
	look := &mockLookup{results: map[string]*models.MedicineInfo{
		"paracetamol":  fullInfo("Paracetamol"),
		"azithromycin": fullInfo("Azithromycin"),
	}}
	rep := &mockReport{}

	result, err := newPipeline(ext, look, rep).Analyze(context.Background(), pngImage())
	require.NoError(t, err)

	// One entry per requested name, in order
	require.Len(t, result.Medicines, 3)
	assert.Equal(t, "Paracetamol", result.Medicines[0].Name)
	assert.Equal(t, "ibuprofen", result.Medicines[1].Name)
	assert.Equal(t, "Azithromycin", result.Medicines[2].Name)

	// The failed entry carries only the name
	failed := result.Medicines[1]
	assert.Equal(t, models.LookupStatusFailed, failed.Status)
	assert.False(t, failed.HasContent())

	// Render received the same records
	assert.Equal(t, result.Medicines, rep.rendered)
}

func TestAnalyze_AllLookupsFailSkipsRender(t *testing.T) {
	ext := &mockExtraction{prescription: prescriptionWith("paracetamol", "ibuprofen")}
	look := &mockLookup{results: map[string]*models.MedicineInfo{}}
	rep := &mockReport{}

	_, err := newPipeline(ext, look, rep).Analyze(context.Background(), pngImage())

	var lookupErr *models.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Len(t, lookupErr.Names, 2)
	assert.Zero(t, rep.calls, "render must not run when every lookup fails")
}

func TestAnalyze_DuplicateNamesLookedUpOnce(t *testing.T) {
	ext := &mockExtraction{prescription: prescriptionWith("paracetamol", "Paracetamol", "ibuprofen")}
	look := &mockLookup{results: map[string]*models.MedicineInfo{
		"paracetamol": fullInfo("Paracetamol"),
		"ibuprofen":   fullInfo("Ibuprofen"),
	}}

	result, err := newPipeline(ext, look, &mockReport{}).Analyze(context.Background(), pngImage())
	require.NoError(t, err)

	assert.Equal(t, []string{"paracetamol", "ibuprofen"}, look.calls)
	assert.Len(t, result.Medicines, 2)
}

func TestAnalyze_Deterministic(t *testing.T) {
	run := func() *models.AnalysisResult {
		ext := &mockExtraction{prescription: prescriptionWith("beta", "alpha", "gamma")}
		look := &mockLookup{results: map[string]*models.MedicineInfo{
			"beta":  fullInfo("Beta"),
			"alpha": fullInfo("Alpha"),
			"gamma": fullInfo("Gamma"),
		}}
		result, err := newPipeline(ext, look, &mockReport{}).Analyze(context.Background(), pngImage())
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	require.Len(t, first.Medicines, 3)
	for i := range first.Medicines {
		assert.Equal(t, first.Medicines[i].Name, second.Medicines[i].Name)
		assert.Equal(t, first.Medicines[i].Description, second.Medicines[i].Description)
	}
}

func TestAnalyze_RenderErrorPropagates(t *testing.T) {
	ext := &mockExtraction{prescription: prescriptionWith("paracetamol")}
	look := &mockLookup{results: map[string]*models.MedicineInfo{"paracetamol": fullInfo("Paracetamol")}}
	rep := &mockReport{err: models.NewRenderError(errors.New("disk full"))}

	_, err := newPipeline(ext, look, rep).Analyze(context.Background(), pngImage())

	var renderErr *models.RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestAnalyze_EndToEndWithPartialRecord(t *testing.T) {
	// Paracetamol resolves fully, Ibuprofen fails: the request still
	// succeeds with two entries, the second name-only.
	ext := &mockExtraction{prescription: prescriptionWith("paracetamol", "ibuprofen")}
	look := &mockLookup{results: map[string]*models.MedicineInfo{
		"paracetamol": fullInfo("Paracetamol"),
	}}
	rep := &mockReport{}

	result, err := newPipeline(ext, look, rep).Analyze(context.Background(), pngImage())
	require.NoError(t, err)

	assert.Equal(t, "rpt_00000000-0000-0000-0000-000000000001", result.ReportID)
	assert.Equal(t, "/api/reports/"+result.ReportID, result.ReportURL)

	require.Len(t, result.Medicines, 2)
	assert.True(t, result.Medicines[0].HasContent())
	assert.Equal(t, "ibuprofen", result.Medicines[1].Name)
	assert.False(t, result.Medicines[1].HasContent())

	assert.Contains(t, result.Summary, "Paracetamol")
	assert.Contains(t, result.SummaryHTML, "<h1")
}
