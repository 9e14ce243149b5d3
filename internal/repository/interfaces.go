package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
)

// ErrNotFound is returned by repositories when zero rows match.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByIdentificationNumber(ctx context.Context, idNumber string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// GetByCode matches on appointment_code, archived rows included,
		// most recent schedule first when duplicates exist.
		GetByCode(ctx context.Context, code string) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListByDoctorBetween(ctx context.Context, doctor string, start, end time.Time) ([]*model.Appointment, error)
		ArchiveByDoctor(ctx context.Context, doctor string) (int64, error)
	}

	PasskeyRepository interface {
		Upsert(ctx context.Context, record *model.PasskeyRecord) error
		GetByIdentificationNumber(ctx context.Context, idNumber string) (*model.PasskeyRecord, error)
		List(ctx context.Context) ([]*model.PasskeyRecord, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	PatientNoteRepository interface {
		Create(ctx context.Context, note *model.PatientNote) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	}
)
