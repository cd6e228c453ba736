package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Section headers the generator is instructed to emit. A line must match a
// header exactly (after trimming) to switch the active section.
const (
	headerChecklist = "Checklist:"
	headerPlan      = "Plan:"
	headerDueDate   = "Due Date:"
)

var (
	bulletRe  = regexp.MustCompile(`^\s*[-•*]+\s*`)
	dueDateRe = regexp.MustCompile(`\[(?:Date )?(\d+) days from today\]`)
)

// parseSections scans the generated text line by line, tracking the active
// section. Lines before the first header are dropped.
func parseSections(text string) Result {
	var result Result
	var current *[]string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch line {
		case headerChecklist:
			current = &result.Checklist
			continue
		case headerPlan:
			current = &result.Plan
			continue
		case headerDueDate:
			current = &result.DueDates
			continue
		}

		if current == nil {
			continue
		}
		if item := cleanItem(line); item != "" {
			*current = append(*current, item)
		}
	}

	return result
}

// cleanItem strips a leading bullet marker and surrounding whitespace.
// Returns "" when nothing remains.
func cleanItem(line string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
}

// resolveDueDates replaces relative placeholders like
// "[Date 7 days from today]" with an absolute date rendered as "02 Jan 2006"
// relative to now. Lines without a placeholder pass through unchanged; the
// caller must tolerate arbitrary due-date text.
func resolveDueDates(lines []string, now time.Time) []string {
	if len(lines) == 0 {
		return lines
	}

	resolved := make([]string, 0, len(lines))
	for _, line := range lines {
		m := dueDateRe.FindStringSubmatch(line)
		if m == nil {
			resolved = append(resolved, line)
			continue
		}
		days, err := strconv.Atoi(m[1])
		if err != nil {
			resolved = append(resolved, line)
			continue
		}
		resolved = append(resolved, now.AddDate(0, 0, days).Format(DueDateLayout))
	}
	return resolved
}

// DueDateLayout is the human-readable date format used in resolved due
// dates, e.g. "21 Feb 2025".
const DueDateLayout = "02 Jan 2006"
