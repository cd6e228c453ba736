package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSections(t *testing.T) {
	text := `Checklist:
    1. Buy amoxicillin
    - Schedule follow-up
Plan:
    • Take amoxicillin twice daily
Due Date:
    1. [Date 7 days from today]`

	result := parseSections(text)

	assert.Equal(t, []string{"1. Buy amoxicillin", "Schedule follow-up"}, result.Checklist)
	assert.Equal(t, []string{"Take amoxicillin twice daily"}, result.Plan)
	assert.Equal(t, []string{"1. [Date 7 days from today]"}, result.DueDates)
}

func TestParseSections_DropsPreamble(t *testing.T) {
	text := `Sure, here are the extracted steps:
Checklist:
- Rest for two days`

	result := parseSections(text)

	assert.Equal(t, []string{"Rest for two days"}, result.Checklist)
	assert.Empty(t, result.Plan)
	assert.Empty(t, result.DueDates)
}

func TestParseSections_HeaderMustMatchExactly(t *testing.T) {
	// "Plan" without the colon is an ordinary line, not a section switch.
	text := `Checklist:
- item one
Plan
- still checklist`

	result := parseSections(text)

	assert.Equal(t, []string{"item one", "Plan", "still checklist"}, result.Checklist)
	assert.Empty(t, result.Plan)
}

func TestParseSections_SkipsBlankLines(t *testing.T) {
	text := "Checklist:\n\n   \n- only item\n"

	result := parseSections(text)

	assert.Equal(t, []string{"only item"}, result.Checklist)
}

func TestParseSections_Empty(t *testing.T) {
	result := parseSections("")
	assert.Empty(t, result.Checklist)
	assert.Empty(t, result.Plan)
	assert.Empty(t, result.DueDates)
}

func TestCleanItem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dash bullet", "- take meds", "take meds"},
		{"unicode bullet", "• take meds", "take meds"},
		{"star bullet", "* take meds", "take meds"},
		{"stacked bullets", "-- take meds", "take meds"},
		{"indented bullet", "   - take meds", "take meds"},
		{"no bullet", "take meds", "take meds"},
		{"bullet only", "- ", ""},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanItem(tt.in))
		})
	}
}

func TestResolveDueDates(t *testing.T) {
	now := time.Date(2025, time.February, 14, 10, 30, 0, 0, time.UTC)

	lines := []string{
		"1. [Date 7 days from today]",
		"[3 days from today]",
		"no placeholder here",
	}

	resolved := resolveDueDates(lines, now)

	assert.Equal(t, []string{
		"21 Feb 2025",
		"17 Feb 2025",
		"no placeholder here",
	}, resolved)
}

func TestResolveDueDates_Empty(t *testing.T) {
	assert.Empty(t, resolveDueDates(nil, time.Now()))
}
