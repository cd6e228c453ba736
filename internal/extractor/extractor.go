package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Generator is the single round trip to the text-generation service. The
// response is free text; the service is treated as opaque and unreliable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result holds the three sections extracted from a note. Each entry is a
// cleaned, bullet-stripped, non-empty line.
type Result struct {
	Checklist []string
	Plan      []string
	DueDates  []string
}

// Service turns a doctor's note into actionable-step candidates. Extraction
// is best-effort: it never returns an error, a failed or malformed
// generation degrades to an empty Result.
type Service struct {
	gen    Generator
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(gen Generator, logger zerolog.Logger) *Service {
	return &Service{gen: gen, logger: logger, now: time.Now}
}

// WithClock fixes the clock used for relative due-date resolution.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

const promptTemplate = `Extract actionable steps from the following doctor's note:

Checklist: Immediate one-time tasks (e.g., buy a drug).
Plan: A schedule of actions (e.g., daily reminders to take the drug for 7 days).
Due Date: Deadlines for each plan item, as relative placeholders, e.g.
Due Date:
    1. [Date 7 days from today]

Respond with exactly this format and nothing else:
Checklist:
    1. ...
    2. ...
Plan:
    1. ...
    2. ...
Due Date:
    1. ...
    2. ...

Doctor's Note:
%s`

// Extract sends the note through the generator and parses the three-section
// response. The section contract is enforced purely by string convention
// because the generator is not schema-constrained.
func (s *Service) Extract(ctx context.Context, noteText string) Result {
	prompt := fmt.Sprintf(promptTemplate, noteText)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("step extraction failed, continuing with empty result")
		return Result{}
	}

	result := parseSections(raw)
	result.DueDates = resolveDueDates(result.DueDates, s.now())
	return result
}
