package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carenote/carenote-api/internal/email"
	"github.com/carenote/carenote-api/internal/extractor"
	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
	"github.com/carenote/carenote-api/pkg/messaging"
	"github.com/carenote/carenote-api/pkg/metrics"
)

const reminderChannel = "reminders"

// Config controls the scan cadence. ErrorDelay is the shortened pause after
// a failed cycle.
type Config struct {
	Interval   time.Duration
	ErrorDelay time.Duration
}

// ReminderWorker is the reminder scheduler: a long-lived singleton that
// scans incomplete steps, upserts one reminder per step and pushes overdue
// due dates forward a day so overdue items keep nudging without flooding.
//
// It takes no locks against note ingestion; running two instances
// double-sends but the upsert keeps at most one live reminder per step.
type ReminderWorker struct {
	steps     repository.StepRepository
	reminders repository.ReminderRepository
	users     repository.UserRepository
	mailer    email.Service
	broker    messaging.Broker
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	cfg       Config
	now       func() time.Time
}

func NewReminderWorker(
	steps repository.StepRepository,
	reminders repository.ReminderRepository,
	users repository.UserRepository,
	mailer email.Service,
	broker messaging.Broker,
	logger zerolog.Logger,
	m *metrics.Metrics,
	cfg Config,
) *ReminderWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.ErrorDelay <= 0 {
		cfg.ErrorDelay = 2 * time.Second
	}
	return &ReminderWorker{
		steps:     steps,
		reminders: reminders,
		users:     users,
		mailer:    mailer,
		broker:    broker,
		logger:    logger,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock fixes the worker's clock.
func (w *ReminderWorker) WithClock(now func() time.Time) *ReminderWorker {
	w.now = now
	return w
}

// Start runs scan cycles until the context is cancelled. A cycle error is
// logged and followed by the shortened delay; the loop never exits on its
// own.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.logger.Info().
		Dur("interval", w.cfg.Interval).
		Msg("reminder scheduler started")

	for {
		delay := w.cfg.Interval
		if err := w.RunCycle(ctx); err != nil {
			w.logger.Error().Err(err).Msg("reminder cycle failed")
			if w.metrics != nil {
				w.metrics.CycleErrors.Inc()
			}
			delay = w.cfg.ErrorDelay
		}

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("reminder scheduler shutting down")
			return
		case <-time.After(delay):
		}
	}
}

// RunCycle performs one scan over all incomplete steps.
func (w *ReminderWorker) RunCycle(ctx context.Context) error {
	start := w.now()

	steps, err := w.steps.ListIncomplete(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan steps: %w", err)
	}

	if w.metrics != nil {
		w.metrics.IncompleteSteps.Set(float64(len(steps)))
	}

	for _, step := range steps {
		if err := w.emit(ctx, step); err != nil {
			return err
		}

		// Missed check-in: push the due date forward one day so the
		// next cycles keep nudging under a fresh date instead of
		// repeating yesterday's reminder.
		if step.Overdue(w.now()) {
			newDue := step.DueDate.AddDate(0, 0, 1)
			if err := w.steps.UpdateDueDate(ctx, step.ID, newDue); err != nil {
				return fmt.Errorf("failed to reschedule step: %w", err)
			}
			step.DueDate = &newDue
			if w.metrics != nil {
				w.metrics.StepsRescheduled.Inc()
			}
			if err := w.emit(ctx, step); err != nil {
				return err
			}
		}
	}

	if w.metrics != nil {
		w.metrics.CyclesTotal.Inc()
		w.metrics.CycleDuration.Observe(w.now().Sub(start).Seconds())
	}
	return nil
}

// emit upserts the reminder for a step and, when the reminder is due and
// not yet delivered, attempts delivery. Broker publish and email delivery
// are best-effort; only storage failures abort the cycle.
func (w *ReminderWorker) emit(ctx context.Context, step *model.ActionableStep) error {
	reminder := &model.Reminder{
		StepID:       step.ID,
		PatientID:    step.PatientID,
		Content:      renderContent(step),
		ReminderDate: step.DueDate,
	}

	if err := w.reminders.UpsertForStep(ctx, reminder); err != nil {
		return err
	}
	if w.metrics != nil {
		w.metrics.RemindersEmitted.Inc()
	}

	if w.broker != nil {
		event := &model.ReminderEvent{
			ReminderID: reminder.ID,
			StepID:     step.ID,
			PatientID:  step.PatientID,
			Content:    reminder.Content,
			DueDate:    step.DueDate,
			EmittedAt:  w.now(),
		}
		if err := w.broker.Publish(ctx, reminderChannel, event); err != nil {
			w.logger.Warn().Err(err).
				Str("step_id", step.ID.String()).
				Msg("failed to publish reminder event")
		}
	}

	if w.mailer != nil && !reminder.Sent && due(step, w.now()) {
		w.deliver(ctx, step, reminder)
	}
	return nil
}

func (w *ReminderWorker) deliver(ctx context.Context, step *model.ActionableStep, reminder *model.Reminder) {
	user, err := w.users.GetUserByPatientID(ctx, step.PatientID)
	if err != nil {
		w.logger.Warn().Err(err).
			Str("patient_id", step.PatientID.String()).
			Msg("failed to resolve patient for reminder delivery")
		return
	}

	if err := w.mailer.SendReminder(ctx, user.Email, "Care reminder", reminder.Content); err != nil {
		w.logger.Warn().Err(err).
			Str("step_id", step.ID.String()).
			Msg("failed to deliver reminder")
		if w.metrics != nil {
			w.metrics.DeliveryFailures.Inc()
		}
		return
	}

	if err := w.reminders.MarkSent(ctx, reminder.ID); err != nil {
		w.logger.Warn().Err(err).
			Str("reminder_id", reminder.ID.String()).
			Msg("failed to mark reminder sent")
		return
	}
	reminder.Sent = true
}

func renderContent(step *model.ActionableStep) string {
	if step.DueDate == nil {
		return fmt.Sprintf("%s: %s", step.StepType, step.Text)
	}
	return fmt.Sprintf("%s: %s due on %s", step.StepType, step.Text, step.DueDate.Format(extractor.DueDateLayout))
}

func due(step *model.ActionableStep, now time.Time) bool {
	return step.DueDate != nil && !step.DueDate.After(now)
}
