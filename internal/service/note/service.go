package note

import (
	"context"

	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
)

type Service struct {
	repo     repository.PatientNoteRepository
	patients repository.PatientRepository
}

func NewService(repo repository.PatientNoteRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

// Append attaches a doctor-authored note to a patient. Notes are never
// edited or removed afterwards.
func (s *Service) Append(ctx context.Context, patientID uuid.UUID, req *model.CreatePatientNoteRequest) (*model.PatientNote, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	note := &model.PatientNote{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Note:      req.Note,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, apperrors.Upstream("note create", err)
	}
	return note, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error) {
	notes, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Upstream("note list", err)
	}
	return notes, nil
}
