package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
)

func (r *patientNoteRepository) Create(ctx context.Context, note *model.PatientNote) error {
	query := `
		INSERT INTO patient_notes (id, patient_id, doctor_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	note.ID = uuid.New()
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt

	if _, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.PatientID,
		note.DoctorID,
		note.Note,
		note.CreatedAt,
		note.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create patient note: %w", err)
	}
	return nil
}

func (r *patientNoteRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error) {
	query := `SELECT * FROM patient_notes WHERE patient_id = $1 ORDER BY created_at DESC`

	notes := []*model.PatientNote{}
	if err := r.db.SelectContext(ctx, &notes, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient notes: %w", err)
	}
	return notes, nil
}
