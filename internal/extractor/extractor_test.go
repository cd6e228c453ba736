package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func fixedClock() time.Time {
	return time.Date(2025, time.February, 14, 9, 0, 0, 0, time.UTC)
}

func TestExtract(t *testing.T) {
	gen := &fakeGenerator{response: `Checklist:
    1. Buy the prescribed inhaler
Plan:
    1. Use inhaler every morning
Due Date:
    1. [Date 7 days from today]`}

	svc := NewService(gen, zerolog.Nop()).WithClock(fixedClock)

	result := svc.Extract(context.Background(), "Patient presents with mild asthma.")

	assert.Equal(t, []string{"1. Buy the prescribed inhaler"}, result.Checklist)
	assert.Equal(t, []string{"1. Use inhaler every morning"}, result.Plan)
	assert.Equal(t, []string{"21 Feb 2025"}, result.DueDates)
	assert.True(t, strings.Contains(gen.prompt, "Patient presents with mild asthma."))
}

func TestExtract_GeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewService(gen, zerolog.Nop()).WithClock(fixedClock)

	result := svc.Extract(context.Background(), "note")

	assert.Empty(t, result.Checklist)
	assert.Empty(t, result.Plan)
	assert.Empty(t, result.DueDates)
}

func TestExtract_MalformedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I could not understand the note, sorry."}
	svc := NewService(gen, zerolog.Nop()).WithClock(fixedClock)

	result := svc.Extract(context.Background(), "note")

	assert.Empty(t, result.Checklist)
	assert.Empty(t, result.Plan)
	assert.Empty(t, result.DueDates)
}
