package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/pkg/metrics"
)

type appointmentRepository struct {
	db *sqlx.DB
	m  *metrics.Metrics
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{db: db, m: m}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, mother_id, scheduled_at, location, notes, status,
			reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.MotherID,
		appointment.ScheduledAt,
		appointment.Location,
		appointment.Notes,
		appointment.Status,
		appointment.ReminderSent,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	observe(r.m, "appointments.insert", start, err)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1 AND deleted_at IS NULL`
	var appointment model.Appointment
	start := time.Now()
	err := r.db.GetContext(ctx, &appointment, query, id)
	observe(r.m, "appointments.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET scheduled_at = $1, location = $2, notes = $3, status = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		appointment.ScheduledAt,
		appointment.Location,
		appointment.Notes,
		appointment.Status,
		time.Now(),
		appointment.ID,
	)
	observe(r.m, "appointments.update", start, err)
	return err
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	observe(r.m, "appointments.delete", start, err)
	return err
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE deleted_at IS NULL`
	args := []interface{}{}

	if filters != nil {
		if filters.MotherID != uuid.Nil {
			args = append(args, filters.MotherID)
			query += fmt.Sprintf(" AND mother_id = $%d", len(args))
		}
		if filters.Status != "" {
			args = append(args, filters.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if !filters.StartDate.IsZero() {
			args = append(args, filters.StartDate)
			query += fmt.Sprintf(" AND scheduled_at >= $%d", len(args))
		}
		if !filters.EndDate.IsZero() {
			args = append(args, filters.EndDate)
			query += fmt.Sprintf(" AND scheduled_at < $%d", len(args))
		}
	}
	query += " ORDER BY scheduled_at"

	var appointments []*model.Appointment
	start := time.Now()
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	observe(r.m, "appointments.list", start, err)
	return appointments, err
}

func (r *appointmentRepository) ListUpcoming(ctx context.Context, motherID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE mother_id = $1 AND deleted_at IS NULL AND status = $2
			AND scheduled_at >= $3 AND scheduled_at < $4
		ORDER BY scheduled_at
	`
	var appointments []*model.Appointment
	start := time.Now()
	err := r.db.SelectContext(ctx, &appointments, query, motherID, model.AppointmentStatusScheduled, from, to)
	observe(r.m, "appointments.list_upcoming", start, err)
	return appointments, err
}

func (r *appointmentRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE deleted_at IS NULL AND status = $1 AND reminder_sent = FALSE
			AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at
	`
	var appointments []*model.Appointment
	start := time.Now()
	err := r.db.SelectContext(ctx, &appointments, query, model.AppointmentStatusScheduled, from, to)
	observe(r.m, "appointments.list_due_reminders", start, err)
	return appointments, err
}

func (r *appointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET reminder_sent = TRUE, updated_at = $1 WHERE id = $2`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	observe(r.m, "appointments.mark_reminder_sent", start, err)
	return err
}
