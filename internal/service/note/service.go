package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carenote/carenote-api/internal/extractor"
	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
	"github.com/carenote/carenote-api/pkg/security"
)

// Extractor is the note-to-steps transformation. It never fails: a broken
// generation yields an empty result.
type Extractor interface {
	Extract(ctx context.Context, noteText string) extractor.Result
}

// Service orchestrates note ingestion: persist the note, reset the
// patient's steps, run extraction, persist the new steps.
type Service struct {
	userRepo  repository.UserRepository
	noteRepo  repository.NoteRepository
	stepRepo  repository.StepRepository
	extractor Extractor
	encryptor security.Encryptor
	logger    zerolog.Logger
}

func NewService(
	userRepo repository.UserRepository,
	noteRepo repository.NoteRepository,
	stepRepo repository.StepRepository,
	ext Extractor,
	encryptor security.Encryptor,
	logger zerolog.Logger,
) *Service {
	return &Service{
		userRepo:  userRepo,
		noteRepo:  noteRepo,
		stepRepo:  stepRepo,
		extractor: ext,
		encryptor: encryptor,
		logger:    logger,
	}
}

// IngestNote stores a doctor's note for a patient and replaces the
// patient's actionable steps with the ones extracted from it. All prior
// steps for the patient are removed, across all earlier notes: the latest
// note wins. Both IDs are user IDs.
//
// Ingestion is not serialized per patient against the reminder scheduler;
// a scan racing the reset can emit a reminder for a just-deleted step,
// which is harmless (reminders reference steps by ID).
func (s *Service) IngestNote(ctx context.Context, doctorUserID, patientUserID uuid.UUID, text string) ([]*model.ActionableStep, error) {
	patient, err := s.userRepo.GetPatientByUserID(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.userRepo.GetDoctorByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.encryptor.EncryptString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt note: %w", err)
	}

	n := &model.Note{
		ID:         uuid.New(),
		DoctorID:   doctor.ID,
		PatientID:  patient.ID,
		Ciphertext: ciphertext,
	}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	if err := s.stepRepo.DeleteByPatient(ctx, patient.ID); err != nil {
		return nil, fmt.Errorf("failed to reset steps: %w", err)
	}

	result := s.extractor.Extract(ctx, text)
	if len(result.Checklist) == 0 && len(result.Plan) == 0 {
		s.logger.Info().
			Str("note_id", n.ID.String()).
			Msg("extraction produced no steps")
	}

	steps := buildSteps(patient.ID, n.ID, result)
	if err := s.stepRepo.CreateBatch(ctx, steps); err != nil {
		return nil, fmt.Errorf("failed to create steps: %w", err)
	}

	return steps, nil
}

// buildSteps turns an extraction result into step records. Every plan item
// gets the first resolved due date; due-date lines beyond the first are
// currently unused (the generator is asked for one deadline per plan item
// but is not trusted to comply).
func buildSteps(patientID, noteID uuid.UUID, result extractor.Result) []*model.ActionableStep {
	var dueDate *time.Time
	if len(result.DueDates) > 0 {
		if d, err := time.Parse(extractor.DueDateLayout, result.DueDates[0]); err == nil {
			dueDate = &d
		}
	}

	steps := make([]*model.ActionableStep, 0, len(result.Checklist)+len(result.Plan))
	for _, item := range result.Checklist {
		steps = append(steps, &model.ActionableStep{
			Base:      model.Base{ID: uuid.New()},
			PatientID: patientID,
			NoteID:    noteID,
			StepType:  model.StepTypeChecklist,
			Text:      item,
		})
	}
	for _, item := range result.Plan {
		steps = append(steps, &model.ActionableStep{
			Base:      model.Base{ID: uuid.New()},
			PatientID: patientID,
			NoteID:    noteID,
			StepType:  model.StepTypePlan,
			Text:      item,
			DueDate:   dueDate,
		})
	}
	return steps
}
