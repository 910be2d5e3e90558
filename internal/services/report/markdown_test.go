package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/medela/internal/models"
)

func samplePrescription() *models.Prescription {
	return &models.Prescription{
		Patient: models.PatientInfo{Name: "John Doe", Age: "45", Gender: "M"},
		Doctor:  models.DoctorInfo{Name: "Dr. Smith", Clinic: "City Clinic"},
		Medicines: []models.PrescribedMedicine{
			{
				RawName:      "Tab. Paracetamol 500mg",
				Name:         "paracetamol",
				Schedule:     models.DoseSchedule{Code: "1-0-1", Morning: "1", Night: "1"},
				Instructions: "after food",
			},
			{
				RawName:  "Syp. Ibuprofen",
				Name:     "ibuprofen",
				Schedule: models.DoseSchedule{Code: "0-1-0", Afternoon: "1"},
			},
		},
	}
}

func TestBuildMarkdown_Sections(t *testing.T) {
	medicines := []*models.MedicineInfo{
		{
			Name:        "Paracetamol",
			Description: "Pain reliever and fever reducer",
			KeyBenefits: []string{"Relieves pain", "Reduces fever"},
			Directions:  "Take after food",
			SafetyInfo:  []string{"Do not exceed 4g per day"},
			SourceURL:   "https://www.1mg.com/drugs/paracetamol",
			Status:      models.LookupStatusOK,
		},
	}

	markdown := buildMarkdown(samplePrescription(), medicines)

	assert.Contains(t, markdown, "# Prescription Report")
	assert.Contains(t, markdown, "## Patient Information")
	assert.Contains(t, markdown, "**Name:** John Doe")
	assert.Contains(t, markdown, "## Doctor Information")
	assert.Contains(t, markdown, "**Name:** Dr. Smith")
	assert.Contains(t, markdown, "## Medicine Schedule")
	assert.Contains(t, markdown, "| Paracetamol | 1 | - | 1 | after food |")
	assert.Contains(t, markdown, "## Paracetamol")
	assert.Contains(t, markdown, "**Description:** Pain reliever")
	assert.Contains(t, markdown, "- Relieves pain")
	assert.Contains(t, markdown, "**More Info:** https://www.1mg.com/drugs/paracetamol")
	assert.Contains(t, markdown, "**Disclaimer:**")
}

func TestBuildMarkdown_FailedLookupSectionIsNameOnly(t *testing.T) {
	medicines := []*models.MedicineInfo{
		{
			Name:        "Paracetamol",
			Description: "Pain reliever",
			Status:      models.LookupStatusOK,
		},
		models.NewFailedMedicineInfo("ibuprofen"),
	}

	markdown := buildMarkdown(samplePrescription(), medicines)

	assert.Contains(t, markdown, "## Ibuprofen")
	assert.Contains(t, markdown, "could not be retrieved")

	// The failed section carries no fields
	failedSection := markdown[strings.Index(markdown, "## Ibuprofen"):]
	assert.NotContains(t, failedSection, "**Description:**")
}

func TestBuildMarkdown_MedicineOrderPreserved(t *testing.T) {
	medicines := []*models.MedicineInfo{
		{Name: "Alpha", Description: "first", Status: models.LookupStatusOK},
		{Name: "Beta", Description: "second", Status: models.LookupStatusOK},
	}

	markdown := buildMarkdown(samplePrescription(), medicines)

	assert.Less(t, strings.Index(markdown, "## Alpha"), strings.Index(markdown, "## Beta"))
}

func TestBuildMarkdown_MissingFieldsShowNA(t *testing.T) {
	prescription := &models.Prescription{
		Medicines: []models.PrescribedMedicine{{Name: "dolo"}},
	}

	markdown := buildMarkdown(prescription, nil)

	assert.Contains(t, markdown, "**Name:** N/A")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Paracetamol", titleCase("paracetamol"))
	assert.Equal(t, "Amoxicillin Clavulanate", titleCase("amoxicillin clavulanate"))
	assert.Equal(t, "", titleCase(""))
}
