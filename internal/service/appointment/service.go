package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	"github.com/wexxqt/ecatsulta-api/pkg/apptcode"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
)

const (
	MinAdvanceBooking = 1 * time.Hour
	MaxAdvanceBooking = 90 * 24 * time.Hour
)

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	outbox   repository.OutboxRepository
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository, outbox repository.OutboxRepository) *Service {
	return &Service{repo: repo, patients: patients, outbox: outbox}
}

// Book creates a pending appointment and persists its derived code. The
// code is generated exactly once here, at booking-success time; it can be
// re-derived from the same id pair thereafter.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validateBooking(req); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:               uuid.New(),
		PatientID:        req.PatientID,
		Schedule:         req.Schedule,
		Status:           model.AppointmentStatusPending,
		PrimaryPhysician: req.PrimaryPhysician,
		Reason:           req.Reason,
		Note:             req.Note,
	}

	code, err := apptcode.Generate(apt.ID.String(), apt.PatientID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate appointment code: %w", err)
	}
	apt.AppointmentCode = code

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Upstream("appointment create", err)
	}

	s.emitEvent(ctx, model.EventAppointmentBooked, apt)
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Upstream("appointment get", err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Upstream("appointment list", err)
	}
	return appointments, nil
}

// UpdateStatus applies one transition of the status state machine.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error) {
	if !next.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown status %q", next), nil)
	}

	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !apt.Status.CanTransitionTo(next) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot move appointment from %s to %s", apt.Status, next), nil)
	}

	apt.Status = next
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperrors.Upstream("appointment update", err)
	}

	s.emitEvent(ctx, model.EventAppointmentUpdated, apt)
	return apt, nil
}

// Cancel sets the cancelled status with a required reason.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	if reason == "" {
		return nil, apperrors.BadRequest("cancellation reason is required", nil)
	}

	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !apt.Status.CanTransitionTo(model.AppointmentStatusCancelled) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot cancel a %s appointment", apt.Status), nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.CancellationReason = &reason
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperrors.Upstream("appointment cancel", err)
	}

	s.emitEvent(ctx, model.EventAppointmentCancelled, apt)
	return apt, nil
}

// ArchiveHistory soft-deletes one doctor's settled appointments and
// reports how many rows were archived.
func (s *Service) ArchiveHistory(ctx context.Context, doctor string) (int64, error) {
	if doctor == "" {
		return 0, apperrors.BadRequest("doctor is required", nil)
	}

	count, err := s.repo.ArchiveByDoctor(ctx, doctor)
	if err != nil {
		return 0, apperrors.Upstream("appointment archive", err)
	}

	if count > 0 {
		payload, err := json.Marshal(map[string]interface{}{"doctor": doctor, "archived": count})
		if err == nil {
			s.writeOutbox(ctx, model.EventAppointmentArchived, payload)
		}
	}
	return count, nil
}

func (s *Service) validateBooking(req *model.CreateAppointmentRequest) error {
	if req.PatientID == uuid.Nil {
		return apperrors.BadRequest("patient id is required", nil)
	}
	if req.PrimaryPhysician == "" {
		return apperrors.BadRequest("primary physician is required", nil)
	}

	advance := time.Until(req.Schedule)
	if advance < MinAdvanceBooking {
		return apperrors.BadRequest(
			fmt.Sprintf("appointments must be booked at least %v in advance", MinAdvanceBooking), nil)
	}
	if advance > MaxAdvanceBooking {
		return apperrors.BadRequest(
			fmt.Sprintf("appointments cannot be booked more than %v in advance", MaxAdvanceBooking), nil)
	}

	return nil
}

// emitEvent records an appointment change for the realtime channel. Event
// loss here is logged, never surfaced: the domain change already
// committed and verification does not depend on the event stream.
func (s *Service) emitEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	event := model.AppointmentEvent{
		AppointmentID:   apt.ID,
		AppointmentCode: apt.AppointmentCode,
		PatientID:       apt.PatientID,
		Doctor:          apt.PrimaryPhysician,
		Schedule:        apt.Schedule,
		Status:          apt.Status,
	}

	// The notifier emails against this payload, so the patient contact
	// details resolve here. A lookup failure degrades to an event with no
	// email rather than losing the event.
	patient := apt.Patient
	if patient == nil && s.patients != nil {
		p, err := s.patients.Get(ctx, apt.PatientID)
		if err != nil {
			log.Warn().Err(err).
				Str("patient_id", apt.PatientID.String()).
				Str("event_type", eventType).
				Msg("failed to resolve patient for appointment event")
		} else {
			patient = p
		}
	}
	if patient != nil {
		event.PatientEmail = patient.Email
		event.PatientName = patient.Name
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal appointment event")
		return
	}
	s.writeOutbox(ctx, eventType, payload)
}

func (s *Service) writeOutbox(ctx context.Context, eventType string, payload json.RawMessage) {
	if s.outbox == nil {
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to write outbox event")
	}
}
