package model

import (
	"time"

	"github.com/google/uuid"
)

// Note is a doctor's free-text note about a patient. The text is encrypted
// at rest: Ciphertext is what the repository persists, Text is only populated
// after decryption. Notes are immutable once created.
type Note struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DoctorID   uuid.UUID `json:"doctor_id" db:"doctor_id"`
	PatientID  uuid.UUID `json:"patient_id" db:"patient_id"`
	Text       string    `json:"text" db:"-"`
	Ciphertext string    `json:"-" db:"ciphertext"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SubmitNoteRequest is a doctor submitting a note for one of their patients.
type SubmitNoteRequest struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	Note      string `json:"note" binding:"required"`
}
