package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a patient from a self-registration request. The
// identification number must be unused: it is the key of the patient's
// passkey record.
func (s *Service) Register(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, apperrors.BadRequest("birth date must be YYYY-MM-DD", err)
	}

	if _, err := s.repo.GetByIdentificationNumber(ctx, req.IdentificationNumber); err == nil {
		return nil, apperrors.BadRequest("identification number already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Upstream("patient lookup", err)
	}

	patient := &model.Patient{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		BirthDate:            birthDate,
		Gender:               req.Gender,
		Address:              req.Address,
		Category:             model.PatientCategory(req.Category),
		IdentificationType:   req.IdentificationType,
		IdentificationNumber: req.IdentificationNumber,
		DocumentRefs:         req.DocumentRefs,
		Allergies:            req.Allergies,
		CurrentMedication:    req.CurrentMedication,
		FamilyHistory:        req.FamilyHistory,
		PastHistory:          req.PastHistory,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Upstream("patient create", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Upstream("patient get", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Upstream("patient list", err)
	}
	return patients, nil
}

// Update applies the non-nil fields of the request. Identification
// metadata and birth date are immutable after registration.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.Category != nil {
		category := model.PatientCategory(*req.Category)
		if !category.Valid() {
			return nil, apperrors.BadRequest("category must be student or employee", nil)
		}
		patient.Category = category
	}
	if req.DocumentRefs != nil {
		patient.DocumentRefs = *req.DocumentRefs
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.CurrentMedication != nil {
		patient.CurrentMedication = *req.CurrentMedication
	}
	if req.FamilyHistory != nil {
		patient.FamilyHistory = *req.FamilyHistory
	}
	if req.PastHistory != nil {
		patient.PastHistory = *req.PastHistory
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Upstream("patient update", err)
	}
	return patient, nil
}
