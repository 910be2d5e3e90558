package models

import "time"

// Report is a generated PDF report awaiting download.
// Report files are the only cross-request artifact; a scheduled sweep
// deletes files older than the configured retention.
type Report struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"-"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisResult is the response payload of a completed analysis
type AnalysisResult struct {
	ReportID     string          `json:"report_id"`
	ReportURL    string          `json:"report_url"`
	Prescription *Prescription   `json:"prescription"`
	Medicines    []*MedicineInfo `json:"medicines"`
	Summary      string          `json:"summary"`      // Markdown summary
	SummaryHTML  string          `json:"summary_html"` // Server-rendered HTML of the summary
}
