package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
)

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// UpsertForStep relies on a UNIQUE constraint on step_id: running it twice
// for the same step leaves exactly one row.
func (r *reminderRepository) UpsertForStep(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (id, step_id, patient_id, content, reminder_date, sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (step_id) DO UPDATE SET
			content = EXCLUDED.content,
			reminder_date = EXCLUDED.reminder_date,
			updated_at = EXCLUDED.updated_at
		RETURNING id, sent
	`
	now := time.Now()
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	// The conflict branch leaves sent untouched; reflect the stored value
	// back so callers see whether this reminder was already delivered.
	err := r.db.QueryRowxContext(ctx, query,
		reminder.ID, reminder.StepID, reminder.PatientID,
		reminder.Content, reminder.ReminderDate, reminder.Sent,
		reminder.CreatedAt, reminder.UpdatedAt).Scan(&reminder.ID, &reminder.Sent)
	if err != nil {
		return fmt.Errorf("failed to upsert reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Reminder, error) {
	query := `SELECT * FROM reminders WHERE patient_id = $1 ORDER BY created_at`
	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reminders SET sent = true, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
