package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carenote/carenote-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	ListByRole(ctx context.Context, role string) ([]*model.User, error)

	CreateDoctor(ctx context.Context, doctor *model.Doctor) error
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	CreatePatient(ctx context.Context, patient *model.Patient) error
	GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	ListPatientsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error)
	AssignDoctor(ctx context.Context, patientID, doctorID uuid.UUID) error
	// GetUserByPatientID resolves a patient profile ID to its user row.
	GetUserByPatientID(ctx context.Context, patientID uuid.UUID) (*model.User, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	Get(ctx context.Context, id uuid.UUID) (*model.Note, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Note, error)
}

type StepRepository interface {
	CreateBatch(ctx context.Context, steps []*model.ActionableStep) error
	Get(ctx context.Context, id uuid.UUID) (*model.ActionableStep, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ActionableStep, error)
	ListIncomplete(ctx context.Context) ([]*model.ActionableStep, error)
	UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

type ReminderRepository interface {
	// UpsertForStep creates the reminder for a step or, if one already
	// exists, overwrites its content and date. At most one row per step.
	UpsertForStep(ctx context.Context, reminder *model.Reminder) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Reminder, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}
