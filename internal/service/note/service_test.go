package note

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenote/carenote-api/internal/extractor"
	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
	apperrors "github.com/carenote/carenote-api/pkg/errors"
	"github.com/carenote/carenote-api/pkg/security"
)

type fakeUserRepo struct {
	repository.UserRepository
	patient *model.Patient
	doctor  *model.Doctor
}

func (f *fakeUserRepo) GetPatientByUserID(_ context.Context, _ uuid.UUID) (*model.Patient, error) {
	if f.patient == nil {
		return nil, apperrors.NotFound("patient", nil)
	}
	return f.patient, nil
}

func (f *fakeUserRepo) GetDoctorByUserID(_ context.Context, _ uuid.UUID) (*model.Doctor, error) {
	if f.doctor == nil {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return f.doctor, nil
}

type fakeNoteRepo struct {
	repository.NoteRepository
	created []*model.Note
}

func (f *fakeNoteRepo) Create(_ context.Context, n *model.Note) error {
	f.created = append(f.created, n)
	return nil
}

type fakeStepRepo struct {
	repository.StepRepository
	deletedFor []uuid.UUID
	created    []*model.ActionableStep
}

func (f *fakeStepRepo) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	f.deletedFor = append(f.deletedFor, patientID)
	return nil
}

func (f *fakeStepRepo) CreateBatch(_ context.Context, steps []*model.ActionableStep) error {
	f.created = append(f.created, steps...)
	return nil
}

type fakeExtractor struct {
	result extractor.Result
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) extractor.Result {
	return f.result
}

func testEncryptor(t *testing.T) security.Encryptor {
	t.Helper()
	enc, err := security.NewAESEncryptor([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return enc
}

func newFixture(t *testing.T, result extractor.Result) (*Service, *fakeNoteRepo, *fakeStepRepo) {
	users := &fakeUserRepo{
		patient: &model.Patient{Base: model.Base{ID: uuid.New()}, UserID: uuid.New()},
		doctor:  &model.Doctor{Base: model.Base{ID: uuid.New()}, UserID: uuid.New()},
	}
	notes := &fakeNoteRepo{}
	steps := &fakeStepRepo{}
	svc := NewService(users, notes, steps, &fakeExtractor{result: result}, testEncryptor(t), zerolog.Nop())
	return svc, notes, steps
}

func TestIngestNote(t *testing.T) {
	result := extractor.Result{
		Checklist: []string{"Buy inhaler", "Schedule follow-up"},
		Plan:      []string{"Use inhaler every morning"},
		DueDates:  []string{"21 Feb 2025"},
	}
	svc, notes, steps := newFixture(t, result)

	created, err := svc.IngestNote(context.Background(), uuid.New(), uuid.New(), "Patient presents with asthma.")
	require.NoError(t, err)

	require.Len(t, notes.created, 1)
	require.Len(t, created, 3)
	assert.Equal(t, steps.created, created)

	checklist := created[:2]
	for _, s := range checklist {
		assert.Equal(t, model.StepTypeChecklist, s.StepType)
		assert.Nil(t, s.DueDate)
	}

	plan := created[2]
	assert.Equal(t, model.StepTypePlan, plan.StepType)
	require.NotNil(t, plan.DueDate)
	assert.Equal(t, time.Date(2025, time.February, 21, 0, 0, 0, 0, time.UTC), plan.DueDate.UTC())
}

func TestIngestNote_EncryptsTextAtRest(t *testing.T) {
	svc, notes, _ := newFixture(t, extractor.Result{})

	text := "Confidential observation."
	_, err := svc.IngestNote(context.Background(), uuid.New(), uuid.New(), text)
	require.NoError(t, err)

	require.Len(t, notes.created, 1)
	stored := notes.created[0]
	assert.NotEqual(t, text, stored.Ciphertext)
	assert.NotContains(t, stored.Ciphertext, "Confidential")

	plain, err := testEncryptor(t).DecryptString(stored.Ciphertext)
	require.NoError(t, err)
	assert.Equal(t, text, plain)
}

func TestIngestNote_ResetsPriorSteps(t *testing.T) {
	svc, _, steps := newFixture(t, extractor.Result{Checklist: []string{"New task"}})

	_, err := svc.IngestNote(context.Background(), uuid.New(), uuid.New(), "note")
	require.NoError(t, err)

	// Prior steps are wiped before the new batch lands.
	require.Len(t, steps.deletedFor, 1)
	require.Len(t, steps.created, 1)
	assert.Equal(t, steps.deletedFor[0], steps.created[0].PatientID)
}

func TestIngestNote_EmptyExtraction(t *testing.T) {
	svc, notes, steps := newFixture(t, extractor.Result{})

	created, err := svc.IngestNote(context.Background(), uuid.New(), uuid.New(), "note")
	require.NoError(t, err)

	// The note is kept even when extraction yields nothing; the patient
	// just ends up with zero steps.
	assert.Len(t, notes.created, 1)
	assert.Empty(t, created)
	assert.Len(t, steps.deletedFor, 1)
}

func TestIngestNote_UnknownPatient(t *testing.T) {
	users := &fakeUserRepo{doctor: &model.Doctor{Base: model.Base{ID: uuid.New()}}}
	notes := &fakeNoteRepo{}
	steps := &fakeStepRepo{}
	svc := NewService(users, notes, steps, &fakeExtractor{}, testEncryptor(t), zerolog.Nop())

	_, err := svc.IngestNote(context.Background(), uuid.New(), uuid.New(), "note")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, notes.created)
}

func TestIngestNote_UnparseableDueDate(t *testing.T) {
	result := extractor.Result{
		Plan:     []string{"Use inhaler"},
		DueDates: []string{"whenever convenient"},
	}
	svc, _, _ := newFixture(t, result)

	created, err := svc.IngestNote(context.Background(), uuid.New(), uuid.New(), "note")
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Nil(t, created[0].DueDate)
}
