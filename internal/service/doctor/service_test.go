package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wexxqt/ecatsulta-api/internal/model"
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

// 2026-09-07 is a Monday.
var testMonday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func testRoster() []model.Doctor {
	return []model.Doctor{
		{
			ID:   "dr-abundo",
			Name: "Dr. Abundo",
			Availability: model.WeeklyWindow{
				Days:      []time.Weekday{time.Monday, time.Wednesday},
				StartHour: 9,
				EndHour:   12,
			},
			SlotMinutes: 30,
		},
	}
}

func TestGetByIDAndName(t *testing.T) {
	svc := NewService(testRoster(), new(mockAppointmentRepo))

	doc, err := svc.GetByID("dr-abundo")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Abundo", doc.Name)

	doc, err = svc.GetByName("Dr. Abundo")
	require.NoError(t, err)
	assert.Equal(t, "dr-abundo", doc.ID)

	_, err = svc.GetByID("dr-nobody")
	assert.Error(t, err)
}

func TestAvailableSlotsEnumeratesWindow(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("ListByDoctorBetween", mock.Anything, "Dr. Abundo", mock.Anything, mock.Anything).
		Return([]*model.Appointment{}, nil)

	svc := NewService(testRoster(), repo)

	slots, err := svc.AvailableSlots(context.Background(), "dr-abundo", testMonday)
	require.NoError(t, err)

	// A 9-12 window in 30 minute slots.
	require.Len(t, slots, 6)
	assert.Equal(t, testMonday.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, testMonday.Add(9*time.Hour+30*time.Minute), slots[0].End)
	assert.Equal(t, testMonday.Add(11*time.Hour+30*time.Minute), slots[5].Start)
}

func TestAvailableSlotsExcludesBookedAndBlocked(t *testing.T) {
	roster := testRoster()
	roster[0].BlockedSlots = []model.BlockedSlot{
		{Date: "2026-09-07", Start: "10:00", End: "10:30"},
	}

	booked := []*model.Appointment{
		{Schedule: testMonday.Add(9 * time.Hour), Status: model.AppointmentStatusScheduled},
	}

	repo := new(mockAppointmentRepo)
	repo.On("ListByDoctorBetween", mock.Anything, "Dr. Abundo", mock.Anything, mock.Anything).
		Return(booked, nil)

	svc := NewService(roster, repo)

	slots, err := svc.AvailableSlots(context.Background(), "dr-abundo", testMonday)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	for _, slot := range slots {
		assert.NotEqual(t, testMonday.Add(9*time.Hour), slot.Start)
		assert.NotEqual(t, testMonday.Add(10*time.Hour), slot.Start)
	}
}

func TestAvailableSlotsEmptyOnHoliday(t *testing.T) {
	roster := testRoster()
	roster[0].Holidays = []string{"2026-09-07"}

	repo := new(mockAppointmentRepo)
	svc := NewService(roster, repo)

	slots, err := svc.AvailableSlots(context.Background(), "dr-abundo", testMonday)
	require.NoError(t, err)
	assert.Empty(t, slots)
	repo.AssertNotCalled(t, "ListByDoctorBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailableSlotsEmptyOffSchedule(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := NewService(testRoster(), repo)

	// 2026-09-08 is a Tuesday; the doctor consults Monday and Wednesday.
	tuesday := testMonday.Add(24 * time.Hour)
	slots, err := svc.AvailableSlots(context.Background(), "dr-abundo", tuesday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsCached(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("ListByDoctorBetween", mock.Anything, "Dr. Abundo", mock.Anything, mock.Anything).
		Return([]*model.Appointment{}, nil).Once()

	svc := NewService(testRoster(), repo)

	_, err := svc.AvailableSlots(context.Background(), "dr-abundo", testMonday)
	require.NoError(t, err)

	// Second call within the TTL must not hit the store.
	_, err = svc.AvailableSlots(context.Background(), "dr-abundo", testMonday)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
