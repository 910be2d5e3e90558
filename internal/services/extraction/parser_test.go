package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMedicineName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tablet prefix with strength",
			input:    "Tab. Metformin 500mg",
			expected: "metformin",
		},
		{
			name:     "capsule prefix",
			input:    "Cap Amoxicillin 250mg",
			expected: "amoxicillin",
		},
		{
			name:     "syrup prefix",
			input:    "Syp. Ambrodil",
			expected: "ambrodil",
		},
		{
			name:     "inline timing code dropped",
			input:    "Tab Paracetamol 650mg - 1-0-1",
			expected: "paracetamol",
		},
		{
			name:     "standalone number removed",
			input:    "Dolo 650",
			expected: "dolo",
		},
		{
			name:     "plain name unchanged",
			input:    "Azithromycin",
			expected: "azithromycin",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only formulation and strength",
			input:    "Tab. 500mg",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanMedicineName(tt.input))
		})
	}
}

func TestParseTimingCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		morning   string
		afternoon string
		night     string
	}{
		{
			name:    "morning and night",
			code:    "1-0-1",
			morning: "1",
			night:   "1",
		},
		{
			name:      "all three doses",
			code:      "1-1-1",
			morning:   "1",
			afternoon: "1",
			night:     "1",
		},
		{
			name:      "fractional afternoon dose",
			code:      "0-1/2-0",
			afternoon: "1/2",
		},
		{
			name: "all zero",
			code: "0-0-0",
		},
		{
			name: "malformed code yields empty schedule",
			code: "1-0",
		},
		{
			name: "empty code",
			code: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := parseTimingCode(tt.code)
			assert.Equal(t, tt.code, schedule.Code)
			assert.Equal(t, tt.morning, schedule.Morning)
			assert.Equal(t, tt.afternoon, schedule.Afternoon)
			assert.Equal(t, tt.night, schedule.Night)
		})
	}
}

func TestParseTimingCode_IsEmpty(t *testing.T) {
	assert.True(t, parseTimingCode("0-0-0").IsEmpty())
	assert.False(t, parseTimingCode("1-0-1").IsEmpty())
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced json block",
			input:    "```json\n{\"a\": 1}\n```",
			expected: "{\"a\": 1}",
		},
		{
			name:     "bare json untouched",
			input:    "{\"a\": 1}",
			expected: "{\"a\": 1}",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  {\"a\": 1}  ",
			expected: "{\"a\": 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONResponse(tt.input))
		})
	}
}
