package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/medela/internal/models"
)

// Disclaimer appended to every report
const Disclaimer = "**Disclaimer:** This tool is for informational purposes only and not a " +
	"substitute for professional medical advice. The analysis may not be 100% accurate. " +
	"Always consult with a healthcare professional before making any decisions based on " +
	"this information."

// buildMarkdown assembles the report document: title, patient block, doctor
// block, dosing schedule table, one section per medicine, disclaimer footer.
// The same markdown drives both the PDF and the analysis summary.
func buildMarkdown(prescription *models.Prescription, medicines []*models.MedicineInfo) string {
	var b strings.Builder

	b.WriteString("# Prescription Report\n\n")

	writePatientBlock(&b, &prescription.Patient)
	writeDoctorBlock(&b, &prescription.Doctor)
	writeScheduleTable(&b, prescription.Medicines)

	for _, info := range medicines {
		writeMedicineSection(&b, info)
	}

	b.WriteString("---\n\n")
	b.WriteString(Disclaimer)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("*Generated on %s*\n", time.Now().Format("2 January 2006 15:04")))

	return b.String()
}

func writePatientBlock(b *strings.Builder, patient *models.PatientInfo) {
	b.WriteString("## Patient Information\n\n")
	writeField(b, "Name", patient.Name)
	writeField(b, "Age", patient.Age)
	writeField(b, "Gender", patient.Gender)
	writeField(b, "ID", patient.ID)
	writeField(b, "Contact", patient.Contact)

	vitals := patient.Vitals
	if vitals.Weight != "" || vitals.BloodPressure != "" || vitals.Temperature != "" || vitals.Pulse != "" {
		b.WriteString("**Vitals:**\n\n")
		writeBullet(b, "Weight", vitals.Weight)
		writeBullet(b, "Blood Pressure", vitals.BloodPressure)
		writeBullet(b, "Temperature", vitals.Temperature)
		writeBullet(b, "Pulse", vitals.Pulse)
	}
	b.WriteString("\n")
}

func writeDoctorBlock(b *strings.Builder, doctor *models.DoctorInfo) {
	b.WriteString("## Doctor Information\n\n")
	writeField(b, "Name", doctor.Name)
	writeField(b, "Qualifications", doctor.Qualifications)
	writeField(b, "Registration No", doctor.Registration)
	writeField(b, "Clinic", doctor.Clinic)
	writeField(b, "Contact", doctor.Contact)
	b.WriteString("\n")
}

func writeScheduleTable(b *strings.Builder, medicines []models.PrescribedMedicine) {
	if len(medicines) == 0 {
		return
	}

	b.WriteString("## Medicine Schedule\n\n")
	b.WriteString("| Medicine | Morning | Afternoon | Night | Instructions |\n")
	b.WriteString("|----------|---------|-----------|-------|--------------|\n")

	for _, med := range medicines {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			titleCase(med.Name),
			dashIfEmpty(med.Schedule.Morning),
			dashIfEmpty(med.Schedule.Afternoon),
			dashIfEmpty(med.Schedule.Night),
			dashIfEmpty(med.Instructions),
		))
	}
	b.WriteString("\n")
}

func writeMedicineSection(b *strings.Builder, info *models.MedicineInfo) {
	b.WriteString(fmt.Sprintf("## %s\n\n", titleCase(info.Name)))

	// A failed or empty lookup yields a name-only section
	if !info.HasContent() {
		b.WriteString("Information for this medicine could not be retrieved.\n\n")
		return
	}

	if info.Description != "" {
		b.WriteString("**Description:** " + info.Description + "\n\n")
	}
	if len(info.KeyBenefits) > 0 {
		b.WriteString("**Key Benefits:**\n\n")
		for _, benefit := range info.KeyBenefits {
			b.WriteString("- " + benefit + "\n")
		}
		b.WriteString("\n")
	}
	if info.Directions != "" {
		b.WriteString("**Directions for Use:** " + info.Directions + "\n\n")
	}
	if len(info.SafetyInfo) > 0 {
		b.WriteString("**Safety Information:**\n\n")
		for _, warning := range info.SafetyInfo {
			b.WriteString("- " + warning + "\n")
		}
		b.WriteString("\n")
	}
	if info.OtherInfo != "" {
		b.WriteString("**Other Information:** " + info.OtherInfo + "\n\n")
	}
	if info.SourceURL != "" {
		b.WriteString("**More Info:** " + info.SourceURL + "\n\n")
	}
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("**%s:** %s\n\n", label, valueOr(value)))
}

func writeBullet(b *strings.Builder, label, value string) {
	if value != "" {
		b.WriteString(fmt.Sprintf("- %s: %s\n", label, value))
	}
}

func valueOr(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// titleCase capitalizes the first letter of each word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
