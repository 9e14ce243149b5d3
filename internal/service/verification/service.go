// Package verification resolves scanned or typed appointment codes back
// to their appointment for the check-in desk.
package verification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
	"github.com/wexxqt/ecatsulta-api/pkg/qrscan"
)

type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

// LookupByCode resolves a normalized code to its appointment with the
// patient embedded. Archived appointments still resolve.
func (s *Service) LookupByCode(ctx context.Context, code string) (*model.Appointment, error) {
	if code == "" {
		return nil, apperrors.NotFound("appointment", nil)
	}

	apt, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Upstream("appointment lookup", err)
	}
	return apt, nil
}

// VerifyScan normalizes a raw scanner payload and resolves the extracted
// code. Normalization never fails; garbage input surfaces as not-found.
func (s *Service) VerifyScan(ctx context.Context, rawPayload json.RawMessage) (*model.Appointment, error) {
	return s.LookupByCode(ctx, qrscan.NormalizeJSON(rawPayload))
}
