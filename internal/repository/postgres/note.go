package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
	apperrors "github.com/carenote/carenote-api/pkg/errors"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	query := `
		INSERT INTO notes (id, doctor_id, patient_id, ciphertext, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	note.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		note.ID, note.DoctorID, note.PatientID, note.Ciphertext, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) Get(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	query := `SELECT * FROM notes WHERE id = $1`
	var note model.Note
	err := r.db.GetContext(ctx, &note, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("note", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (r *noteRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Note, error) {
	query := `SELECT * FROM notes WHERE patient_id = $1 ORDER BY created_at DESC`
	var notes []*model.Note
	if err := r.db.SelectContext(ctx, &notes, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}
