package model

import (
	"time"

	"github.com/google/uuid"
)

// PatientNote is a doctor-authored free-text note. Append-only: notes are
// created and listed, never edited or deleted.
type PatientNote struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  string    `db:"doctor_id" json:"doctor_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePatientNoteRequest struct {
	DoctorID string `json:"doctor_id" binding:"required"`
	Note     string `json:"note" binding:"required,max=2000"`
}
