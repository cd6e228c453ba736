package model

import (
	"time"

	"github.com/google/uuid"
)

// Step type constants
const (
	StepTypeChecklist = "checklist"
	StepTypePlan      = "plan"
)

// ActionableStep is a single to-do item derived from a note: either an
// immediate checklist task or a scheduled plan entry with a due date.
// Steps do not survive across notes: ingesting a new note for a patient
// deletes every step from that patient's earlier notes.
type ActionableStep struct {
	Base
	PatientID uuid.UUID  `json:"patient_id" db:"patient_id"`
	NoteID    uuid.UUID  `json:"note_id" db:"note_id"`
	StepType  string     `json:"step_type" db:"step_type"`
	Text      string     `json:"text" db:"text"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	Completed bool       `json:"completed" db:"completed"`
}

// Overdue reports whether the step has a due date strictly in the past.
func (s *ActionableStep) Overdue(now time.Time) bool {
	return s.DueDate != nil && s.DueDate.Before(now)
}
