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

type stepRepository struct {
	db *sqlx.DB
}

func NewStepRepository(db *sqlx.DB) repository.StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) CreateBatch(ctx context.Context, steps []*model.ActionableStep) error {
	if len(steps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO actionable_steps (id, patient_id, note_id, step_type, text, due_date, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	for _, step := range steps {
		step.CreatedAt = now
		step.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			step.ID, step.PatientID, step.NoteID, step.StepType,
			step.Text, step.DueDate, step.Completed, step.CreatedAt, step.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit steps: %w", err)
	}
	return nil
}

func (r *stepRepository) Get(ctx context.Context, id uuid.UUID) (*model.ActionableStep, error) {
	query := `SELECT * FROM actionable_steps WHERE id = $1`
	var step model.ActionableStep
	err := r.db.GetContext(ctx, &step, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("actionable step", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &step, nil
}

func (r *stepRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ActionableStep, error) {
	query := `SELECT * FROM actionable_steps WHERE patient_id = $1 ORDER BY created_at`
	var steps []*model.ActionableStep
	if err := r.db.SelectContext(ctx, &steps, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	return steps, nil
}

// ListIncomplete returns every step not yet completed, regardless of due
// date. The scheduler filters nothing here on purpose: even not-yet-due
// steps get their reminder refreshed each cycle.
func (r *stepRepository) ListIncomplete(ctx context.Context) ([]*model.ActionableStep, error) {
	query := `SELECT * FROM actionable_steps WHERE completed = false ORDER BY created_at`
	var steps []*model.ActionableStep
	if err := r.db.SelectContext(ctx, &steps, query); err != nil {
		return nil, fmt.Errorf("failed to list incomplete steps: %w", err)
	}
	return steps, nil
}

func (r *stepRepository) UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error {
	query := `UPDATE actionable_steps SET due_date = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, dueDate, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update due date: %w", err)
	}
	return nil
}

func (r *stepRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE actionable_steps SET completed = true, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark step completed: %w", err)
	}
	return nil
}

// DeleteByPatient removes every step for the patient, across all notes.
// Reminders cascade via the step_id foreign key.
func (r *stepRepository) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	query := `DELETE FROM actionable_steps WHERE patient_id = $1`
	if _, err := r.db.ExecContext(ctx, query, patientID); err != nil {
		return fmt.Errorf("failed to delete steps: %w", err)
	}
	return nil
}
