package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
)

const (
	doctorCacheKey = "doctors"
	doctorCacheTTL = 30 * time.Second
)

// Service exposes the user directory: the admin user list, the doctor
// roster patients choose from, doctor assignment and the per-role views.
type Service struct {
	userRepo repository.UserRepository
	stepRepo repository.StepRepository
	remRepo  repository.ReminderRepository
	noteRepo repository.NoteRepository
	decrypt  func(string) (string, error)
	cache    *gocache.Cache
}

func NewService(
	userRepo repository.UserRepository,
	stepRepo repository.StepRepository,
	remRepo repository.ReminderRepository,
	noteRepo repository.NoteRepository,
	decrypt func(string) (string, error),
) *Service {
	return &Service{
		userRepo: userRepo,
		stepRepo: stepRepo,
		remRepo:  remRepo,
		noteRepo: noteRepo,
		decrypt:  decrypt,
		cache:    gocache.New(doctorCacheTTL, 2*doctorCacheTTL),
	}
}

// ListUsers returns every user in the directory.
func (s *Service) ListUsers(ctx context.Context) ([]*model.UserView, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]*model.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, &model.UserView{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
		})
	}
	return views, nil
}

// ListDoctors returns the doctor roster. The roster is read-heavy and
// changes rarely, so results are cached briefly.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.UserView, error) {
	if cached, ok := s.cache.Get(doctorCacheKey); ok {
		return cached.([]*model.UserView), nil
	}

	doctors, err := s.userRepo.ListByRole(ctx, model.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	views := make([]*model.UserView, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, &model.UserView{
			ID:       d.ID,
			Email:    d.Email,
			FullName: d.FullName,
			Role:     d.Role,
		})
	}

	s.cache.Set(doctorCacheKey, views, gocache.DefaultExpiration)
	return views, nil
}

// SelectDoctor assigns (or reassigns) a doctor to the calling patient.
// Both IDs are user IDs; missing profiles surface as not-found errors.
func (s *Service) SelectDoctor(ctx context.Context, patientUserID, doctorUserID uuid.UUID) error {
	patient, err := s.userRepo.GetPatientByUserID(ctx, patientUserID)
	if err != nil {
		return err
	}

	doctor, err := s.userRepo.GetDoctorByUserID(ctx, doctorUserID)
	if err != nil {
		return err
	}

	if err := s.userRepo.AssignDoctor(ctx, patient.ID, doctor.ID); err != nil {
		return fmt.Errorf("failed to assign doctor: %w", err)
	}
	return nil
}

// ListDoctorPatients returns the doctor's assigned patients with each
// patient's current steps and latest note text.
func (s *Service) ListDoctorPatients(ctx context.Context, doctorUserID uuid.UUID) ([]*model.PatientSummary, error) {
	doctor, err := s.userRepo.GetDoctorByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	patients, err := s.userRepo.ListPatientsByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	summaries := make([]*model.PatientSummary, 0, len(patients))
	for _, p := range patients {
		u, err := s.userRepo.Get(ctx, p.UserID)
		if err != nil {
			return nil, err
		}

		steps, err := s.stepRepo.ListByPatient(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		summary := &model.PatientSummary{
			UserID:   u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Steps:    steps,
		}

		notes, err := s.noteRepo.ListByPatient(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if len(notes) > 0 {
			if text, err := s.decrypt(notes[0].Ciphertext); err == nil {
				summary.LatestNote = &text
			}
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// PatientOverview returns the calling patient's own steps and reminders.
func (s *Service) PatientOverview(ctx context.Context, patientUserID uuid.UUID) (*model.PatientOverview, error) {
	u, err := s.userRepo.Get(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	patient, err := s.userRepo.GetPatientByUserID(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	steps, err := s.stepRepo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}

	reminders, err := s.remRepo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}

	return &model.PatientOverview{
		Email:     u.Email,
		FullName:  u.FullName,
		Steps:     steps,
		Reminders: reminders,
	}, nil
}
