package appointment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/pkg/apptcode"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *mockAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if apt := args.Get(0); apt != nil {
		return apt.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) GetByCode(ctx context.Context, code string) (*model.Appointment, error) {
	args := m.Called(ctx, code)
	if apt := args.Get(0); apt != nil {
		return apt.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *mockAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	args := m.Called(ctx, filters)
	if apts := args.Get(0); apts != nil {
		return apts.([]*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) ListByDoctorBetween(ctx context.Context, doctor string, start, end time.Time) ([]*model.Appointment, error) {
	args := m.Called(ctx, doctor, start, end)
	if apts := args.Get(0); apts != nil {
		return apts.([]*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) ArchiveByDoctor(ctx context.Context, doctor string) (int64, error) {
	args := m.Called(ctx, doctor)
	return args.Get(0).(int64), args.Error(1)
}

type mockPatientRepo struct {
	mock.Mock
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *mockPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*model.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) GetByIdentificationNumber(ctx context.Context, idNumber string) (*model.Patient, error) {
	args := m.Called(ctx, idNumber)
	if p := args.Get(0); p != nil {
		return p.(*model.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *mockPatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	args := m.Called(ctx, filters)
	if ps := args.Get(0); ps != nil {
		return ps.([]*model.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if events := args.Get(0); events != nil {
		return events.([]*model.OutboxEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}

func validBookingRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:        uuid.New(),
		Schedule:         time.Now().Add(48 * time.Hour),
		PrimaryPhysician: "Dr. Abundo",
		Reason:           "annual physical exam",
	}
}

func TestBookAssignsCodeAndPendingStatus(t *testing.T) {
	repo := new(mockAppointmentRepo)
	outbox := new(mockOutboxRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	outbox.On("Create", mock.Anything, mock.MatchedBy(func(e *model.OutboxEvent) bool {
		return e.EventType == model.EventAppointmentBooked
	})).Return(nil)

	svc := NewService(repo, nil, outbox)

	apt, err := svc.Book(context.Background(), validBookingRequest())
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.True(t, apptcode.IsValid(apt.AppointmentCode))
	assert.NotEqual(t, uuid.Nil, apt.ID)

	// Code derives from the id pair alone.
	rederived, err := apptcode.Generate(apt.ID.String(), apt.PatientID.String())
	require.NoError(t, err)
	assert.Equal(t, rederived, apt.AppointmentCode)

	outbox.AssertExpectations(t)
}

func TestBookedEventCarriesPatientContact(t *testing.T) {
	req := validBookingRequest()
	repo := new(mockAppointmentRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	patients := new(mockPatientRepo)
	patients.On("Get", mock.Anything, req.PatientID).Return(&model.Patient{
		ID:    req.PatientID,
		Name:  "Juan Dela Cruz",
		Email: "juan.delacruz@example.edu",
	}, nil)

	var captured *model.OutboxEvent
	outbox := new(mockOutboxRepo)
	outbox.On("Create", mock.Anything, mock.MatchedBy(func(e *model.OutboxEvent) bool {
		captured = e
		return e.EventType == model.EventAppointmentBooked
	})).Return(nil)

	svc := NewService(repo, patients, outbox)

	apt, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, captured)

	// The notifier mails from this payload; an empty email would make
	// booking confirmations silently undeliverable.
	var event model.AppointmentEvent
	require.NoError(t, json.Unmarshal(captured.Payload, &event))
	assert.Equal(t, "juan.delacruz@example.edu", event.PatientEmail)
	assert.Equal(t, "Juan Dela Cruz", event.PatientName)
	assert.Equal(t, apt.AppointmentCode, event.AppointmentCode)
}

func TestBookedEventSurvivesPatientLookupFailure(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	patients := new(mockPatientRepo)
	patients.On("Get", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	outbox := new(mockOutboxRepo)
	outbox.On("Create", mock.Anything, mock.MatchedBy(func(e *model.OutboxEvent) bool {
		return e.EventType == model.EventAppointmentBooked
	})).Return(nil)

	svc := NewService(repo, patients, outbox)

	_, err := svc.Book(context.Background(), validBookingRequest())
	require.NoError(t, err)
	outbox.AssertExpectations(t)
}

func TestBookRejectsBadAdvanceWindow(t *testing.T) {
	svc := NewService(new(mockAppointmentRepo), nil, nil)

	tooSoon := validBookingRequest()
	tooSoon.Schedule = time.Now().Add(10 * time.Minute)
	_, err := svc.Book(context.Background(), tooSoon)
	assert.Error(t, err)

	tooFar := validBookingRequest()
	tooFar.Schedule = time.Now().Add(91 * 24 * time.Hour)
	_, err = svc.Book(context.Background(), tooFar)
	assert.Error(t, err)

	past := validBookingRequest()
	past.Schedule = time.Now().Add(-time.Hour)
	_, err = svc.Book(context.Background(), past)
	assert.Error(t, err)
}

func TestBookRejectsMissingFields(t *testing.T) {
	svc := NewService(new(mockAppointmentRepo), nil, nil)

	req := validBookingRequest()
	req.PatientID = uuid.Nil
	_, err := svc.Book(context.Background(), req)
	assert.Error(t, err)

	req = validBookingRequest()
	req.PrimaryPhysician = ""
	_, err = svc.Book(context.Background(), req)
	assert.Error(t, err)
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.AppointmentStatus
		to      model.AppointmentStatus
		allowed bool
	}{
		{"pending to scheduled", model.AppointmentStatusPending, model.AppointmentStatusScheduled, true},
		{"pending to cancelled", model.AppointmentStatusPending, model.AppointmentStatusCancelled, true},
		{"pending to completed", model.AppointmentStatusPending, model.AppointmentStatusCompleted, false},
		{"scheduled to completed", model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, true},
		{"scheduled to missed", model.AppointmentStatusScheduled, model.AppointmentStatusMissed, true},
		{"cancelled is terminal", model.AppointmentStatusCancelled, model.AppointmentStatusScheduled, false},
		{"completed is terminal", model.AppointmentStatusCompleted, model.AppointmentStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			repo := new(mockAppointmentRepo)
			repo.On("Get", mock.Anything, id).Return(&model.Appointment{ID: id, Status: tt.from}, nil)
			repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			outbox := new(mockOutboxRepo)
			outbox.On("Create", mock.Anything, mock.Anything).Return(nil)

			svc := NewService(repo, nil, outbox)

			apt, err := svc.UpdateStatus(context.Background(), id, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, apt.Status)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewService(new(mockAppointmentRepo), nil, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.AppointmentStatus("postponed"))
	assert.Error(t, err)
}

func TestCancelRequiresReason(t *testing.T) {
	svc := NewService(new(mockAppointmentRepo), nil, nil)

	_, err := svc.Cancel(context.Background(), uuid.New(), "")
	assert.Error(t, err)
}

func TestCancelSetsReasonAndEmitsEvent(t *testing.T) {
	id := uuid.New()
	repo := new(mockAppointmentRepo)
	repo.On("Get", mock.Anything, id).Return(&model.Appointment{ID: id, Status: model.AppointmentStatusScheduled}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	outbox := new(mockOutboxRepo)
	outbox.On("Create", mock.Anything, mock.MatchedBy(func(e *model.OutboxEvent) bool {
		return e.EventType == model.EventAppointmentCancelled
	})).Return(nil)

	svc := NewService(repo, nil, outbox)

	apt, err := svc.Cancel(context.Background(), id, "patient request")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)
	require.NotNil(t, apt.CancellationReason)
	assert.Equal(t, "patient request", *apt.CancellationReason)

	outbox.AssertExpectations(t)
}

func TestArchiveHistory(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("ArchiveByDoctor", mock.Anything, "Dr. Abundo").Return(int64(4), nil)
	outbox := new(mockOutboxRepo)
	outbox.On("Create", mock.Anything, mock.MatchedBy(func(e *model.OutboxEvent) bool {
		return e.EventType == model.EventAppointmentArchived
	})).Return(nil)

	svc := NewService(repo, nil, outbox)

	count, err := svc.ArchiveHistory(context.Background(), "Dr. Abundo")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	_, err = svc.ArchiveHistory(context.Background(), "")
	assert.Error(t, err)
}

func TestBookSurvivesOutboxFailure(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	outbox := new(mockOutboxRepo)
	outbox.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(repo, nil, outbox)

	// The booking already committed; event loss is logged, not surfaced.
	apt, err := svc.Book(context.Background(), validBookingRequest())
	require.NoError(t, err)
	assert.NotNil(t, apt)
}
