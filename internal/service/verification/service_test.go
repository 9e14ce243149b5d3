package verification

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
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
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

func TestLookupByCode(t *testing.T) {
	apt := &model.Appointment{
		ID:              uuid.New(),
		AppointmentCode: "ABC-123456-XYZ",
		Patient:         &model.Patient{Name: "Juan dela Cruz"},
	}

	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, "ABC-123456-XYZ").Return(apt, nil)

	svc := NewService(repo)

	got, err := svc.LookupByCode(context.Background(), "ABC-123456-XYZ")
	require.NoError(t, err)
	assert.Equal(t, apt.ID, got.ID)
	require.NotNil(t, got.Patient)
	assert.Equal(t, "Juan dela Cruz", got.Patient.Name)
}

func TestLookupByCodeNotFound(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, "ABC-000000-XYZ").Return(nil, repository.ErrNotFound)

	svc := NewService(repo)

	_, err := svc.LookupByCode(context.Background(), "ABC-000000-XYZ")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLookupByCodeEmpty(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := NewService(repo)

	_, err := svc.LookupByCode(context.Background(), "")
	assert.True(t, apperrors.IsNotFound(err))
	repo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestLookupByCodeArchivedStillResolves(t *testing.T) {
	apt := &model.Appointment{
		ID:              uuid.New(),
		AppointmentCode: "ABC-123456-XYZ",
		Archived:        true,
	}

	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, "ABC-123456-XYZ").Return(apt, nil)

	svc := NewService(repo)

	got, err := svc.LookupByCode(context.Background(), "ABC-123456-XYZ")
	require.NoError(t, err)
	assert.True(t, got.Archived)
}

func TestVerifyScanNormalizesPayload(t *testing.T) {
	apt := &model.Appointment{ID: uuid.New(), AppointmentCode: "ABC-123456-XYZ"}

	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, "ABC-123456-XYZ").Return(apt, nil)

	svc := NewService(repo)

	payloads := []string{
		`"ABC-123456-XYZ"`,
		`{"rawValue":"https://clinic.example.edu/verify?code=ABC-123456-XYZ"}`,
		`[{"text":"ABC-123456-XYZ"}]`,
	}
	for _, raw := range payloads {
		got, err := svc.VerifyScan(context.Background(), json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, apt.ID, got.ID)
	}
}

func TestVerifyScanGarbageReadsAsNotFound(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	svc := NewService(repo)

	_, err := svc.VerifyScan(context.Background(), json.RawMessage(`"not a code"`))
	assert.True(t, apperrors.IsNotFound(err))
}
