package model

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is the rendered nudge for one actionable step. There is at most
// one live reminder per step: re-emission updates the existing row.
type Reminder struct {
	Base
	StepID       uuid.UUID  `json:"step_id" db:"step_id"`
	PatientID    uuid.UUID  `json:"patient_id" db:"patient_id"`
	Content      string     `json:"content" db:"content"`
	ReminderDate *time.Time `json:"reminder_date,omitempty" db:"reminder_date"`
	Sent         bool       `json:"sent" db:"sent"`
}

// PatientOverview is the patient-facing view of their own care state.
type PatientOverview struct {
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	Steps     []*ActionableStep `json:"actionable_steps"`
	Reminders []*Reminder       `json:"reminders"`
}

// ReminderEvent is published to the message broker whenever the scheduler
// emits or refreshes a reminder. Fire-and-forget: consumers must tolerate
// duplicates and gaps.
type ReminderEvent struct {
	ReminderID uuid.UUID  `json:"reminder_id"`
	StepID     uuid.UUID  `json:"step_id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	Content    string     `json:"content"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	EmittedAt  time.Time  `json:"emitted_at"`
}
