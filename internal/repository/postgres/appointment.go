package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, schedule, status, primary_physician, reason,
			note, cancellation_reason, archived, appointment_code,
			created_at, updated_at
		) VALUES (
			:id, :patient_id, :schedule, :status, :primary_physician, :reason,
			:note, :cancellation_reason, :archived, :appointment_code,
			:created_at, :updated_at
		)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// GetByCode resolves an appointment code. Archived rows are included so
// verification keeps working for historical appointments. Duplicate codes
// should not occur, but if they do the most recently scheduled row wins.
func (r *appointmentRepository) GetByCode(ctx context.Context, code string) (*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE appointment_code = $1
		ORDER BY schedule DESC
		LIMIT 1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment by code: %w", err)
	}

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE id = $1`, appointment.PatientID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to resolve appointment patient: %w", err)
		}
	} else {
		appointment.Patient = &patient
	}

	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET schedule = :schedule, status = :status, reason = :reason,
			note = :note, cancellation_reason = :cancellation_reason,
			archived = :archived, updated_at = :updated_at
		WHERE id = :id
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filters != nil {
		if !filters.IncludeArchived {
			query += " AND archived = false"
		}
		if filters.Doctor != "" {
			query += fmt.Sprintf(" AND primary_physician = $%d", argPos)
			args = append(args, filters.Doctor)
			argPos++
		}
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argPos)
			args = append(args, filters.PatientID)
			argPos++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argPos)
			args = append(args, filters.Status)
			argPos++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND schedule >= $%d", argPos)
			args = append(args, filters.StartDate)
			argPos++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND schedule < $%d", argPos)
			args = append(args, filters.EndDate)
			argPos++
		}
	} else {
		query += " AND archived = false"
	}

	query += " ORDER BY schedule ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctorBetween(ctx context.Context, doctor string, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE primary_physician = $1
		  AND archived = false
		  AND status IN ('pending', 'scheduled')
		  AND schedule >= $2 AND schedule < $3
		ORDER BY schedule ASC
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctor, start, end); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

// ArchiveByDoctor soft-deletes one doctor's history. Only settled
// appointments are archived; pending and scheduled ones stay visible.
func (r *appointmentRepository) ArchiveByDoctor(ctx context.Context, doctor string) (int64, error) {
	query := `
		UPDATE appointments
		SET archived = true, updated_at = $1
		WHERE primary_physician = $2
		  AND archived = false
		  AND status IN ('cancelled', 'completed', 'missed')
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), doctor)
	if err != nil {
		return 0, fmt.Errorf("failed to archive appointments: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
