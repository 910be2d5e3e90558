package models

// PrescriptionImage is the raw uploaded image, request-scoped.
type PrescriptionImage struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

// PatientInfo holds patient details extracted from the prescription
type PatientInfo struct {
	Name    string `json:"name,omitempty"`
	Age     string `json:"age,omitempty"`
	Gender  string `json:"gender,omitempty"`
	ID      string `json:"id,omitempty"`
	Contact string `json:"contact,omitempty"`
	Vitals  Vitals `json:"vitals,omitempty"`
}

// Vitals holds measurements noted on the prescription, when legible
type Vitals struct {
	BloodPressure string `json:"blood_pressure,omitempty"`
	Weight        string `json:"weight,omitempty"`
	Temperature   string `json:"temperature,omitempty"`
	Pulse         string `json:"pulse,omitempty"`
}

// DoctorInfo holds prescriber details extracted from the prescription
type DoctorInfo struct {
	Name           string `json:"name,omitempty"`
	Qualifications string `json:"qualifications,omitempty"`
	Registration   string `json:"registration,omitempty"`
	Clinic         string `json:"clinic,omitempty"`
	Contact        string `json:"contact,omitempty"`
}

// DoseSchedule is a timing code decoded into day parts.
// A prescription timing code like "1-0-1" means one dose in the morning
// and one at night; fractional doses ("1/2") are kept as written.
type DoseSchedule struct {
	Code      string `json:"code,omitempty"` // Original timing code as written (e.g. "1-0-1")
	Morning   string `json:"morning,omitempty"`
	Afternoon string `json:"afternoon,omitempty"`
	Night     string `json:"night,omitempty"`
}

// IsEmpty reports whether no schedule information was decoded
func (d DoseSchedule) IsEmpty() bool {
	return d.Morning == "" && d.Afternoon == "" && d.Night == ""
}

// PrescribedMedicine is one medicine line from the prescription
type PrescribedMedicine struct {
	RawName      string       `json:"raw_name"`   // Name exactly as extracted (e.g. "Tab. Paracetamol 500mg")
	Name         string       `json:"name"`       // Cleaned name used for lookup (e.g. "Paracetamol")
	Dosage       string       `json:"dosage,omitempty"`
	Schedule     DoseSchedule `json:"schedule,omitempty"`
	Duration     string       `json:"duration,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

// Prescription is the structured content extracted from a prescription image
type Prescription struct {
	Patient   PatientInfo          `json:"patient"`
	Doctor    DoctorInfo           `json:"doctor"`
	Date      string               `json:"date,omitempty"`
	Medicines []PrescribedMedicine `json:"medicines"`
	Notes     string               `json:"notes,omitempty"`
}

// MedicineNames returns the cleaned names in prescription order
func (p *Prescription) MedicineNames() []string {
	names := make([]string, 0, len(p.Medicines))
	for _, m := range p.Medicines {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}
