package extraction

import (
	"regexp"
	"strings"

	"github.com/ternarybob/medela/internal/models"
)

// Formulation prefixes stripped from extracted medicine names.
// Order matters only for readability; each is matched at the start of the name.
var formulationPrefixes = []string{
	"tab", "tabs", "tablet", "tablets", "cap", "caps", "capsule", "capsules",
	"inj", "injection", "syp", "syrup", "susp", "suspension", "oint", "ointment",
	"cream", "lotion", "gel", "drop", "drops", "spray", "powder", "sachet", "t",
}

var (
	dosageStrengthRegex  = regexp.MustCompile(`(?i)\b\d+\s*(?:mg|ml|mcg|g)\b`)
	standaloneNumRegex   = regexp.MustCompile(`\b\d+\b`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
	jsonFenceOpenRegex   = regexp.MustCompile("```json\\s*")
	jsonFenceCloseRegex  = regexp.MustCompile("```\\s*$")
)

// cleanMedicineName extracts the clean medicine name by removing formulation
// prefixes, dosage strengths and standalone numbers.
//
//	"Tab. Metformin 500mg" -> "metformin"
//	"Syp Ambrodil-S"       -> "ambrodil"
func cleanMedicineName(raw string) string {
	// Drop inline dosage pattern if present (e.g. "- 1-0-1")
	name := strings.TrimSpace(strings.SplitN(strings.ToLower(raw), "-", 2)[0])

	for _, prefix := range formulationPrefixes {
		pattern := regexp.MustCompile(`(?i)^` + prefix + `\.?\s+`)
		name = pattern.ReplaceAllString(name, "")
	}

	name = dosageStrengthRegex.ReplaceAllString(name, "")
	name = standaloneNumRegex.ReplaceAllString(name, "")
	name = whitespaceRegex.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// parseTimingCode decodes a timing code like "1-0-1" or "0-1/2-0" into a
// day-part schedule. Fractional doses are kept exactly as written.
// Malformed codes yield an empty schedule, never an error.
func parseTimingCode(code string) models.DoseSchedule {
	schedule := models.DoseSchedule{Code: code}

	if code == "" {
		return schedule
	}

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		return schedule
	}

	if parts[0] != "0" && parts[0] != "0/0" {
		schedule.Morning = parts[0]
	}
	if parts[1] != "0" && parts[1] != "0/0" {
		schedule.Afternoon = parts[1]
	}
	if parts[2] != "0" && parts[2] != "0/0" {
		schedule.Night = parts[2]
	}

	return schedule
}

// cleanJSONResponse strips markdown code fences a model may wrap around JSON
func cleanJSONResponse(text string) string {
	text = jsonFenceOpenRegex.ReplaceAllString(text, "")
	text = jsonFenceCloseRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
