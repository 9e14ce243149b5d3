package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/wexxqt/ecatsulta-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type passkeyRepository struct {
	db *sqlx.DB
}

type patientNoteRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewPasskeyRepository(db *sqlx.DB) repository.PasskeyRepository {
	return &passkeyRepository{db: db}
}

func NewPatientNoteRepository(db *sqlx.DB) repository.PatientNoteRepository {
	return &patientNoteRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
