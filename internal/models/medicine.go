package models

// Lookup status values for MedicineInfo
const (
	// LookupStatusOK means the lookup returned usable content
	LookupStatusOK = "ok"
	// LookupStatusEmpty means the page yielded no usable fields
	LookupStatusEmpty = "empty"
	// LookupStatusFailed means the lookup errored; record carries the name only
	LookupStatusFailed = "failed"
)

// MedicineInfo is the public information gathered for one medicine.
// A partial record (failed or empty lookup) carries only Name and Status.
type MedicineInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	KeyBenefits []string `json:"key_benefits,omitempty"`
	Directions  string   `json:"directions,omitempty"`
	SafetyInfo  []string `json:"safety_info,omitempty"`
	OtherInfo   string   `json:"other_info,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	Status      string   `json:"status"`
}

// NewFailedMedicineInfo builds the partial record for a failed lookup
func NewFailedMedicineInfo(name string) *MedicineInfo {
	return &MedicineInfo{Name: name, Status: LookupStatusFailed}
}

// HasContent reports whether the record has any field beyond the name
func (m *MedicineInfo) HasContent() bool {
	return m.Description != "" || len(m.KeyBenefits) > 0 ||
		m.Directions != "" || len(m.SafetyInfo) > 0 || m.OtherInfo != ""
}
