package patient

import (
	"context"
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

func validRegistration() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		Name:                 "Juan dela Cruz",
		Email:                "juan@example.edu",
		Phone:                "+639170000000",
		BirthDate:            "2001-03-15",
		Gender:               "male",
		Address:              "University Dormitory, Room 12",
		Category:             "student",
		IdentificationType:   "student_id",
		IdentificationNumber: "2021-00042",
	}
}

func TestRegister(t *testing.T) {
	repo := new(mockPatientRepo)
	repo.On("GetByIdentificationNumber", mock.Anything, "2021-00042").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo)

	patient, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "Juan dela Cruz", patient.Name)
	assert.Equal(t, model.PatientCategoryStudent, patient.Category)
	assert.Equal(t, time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC), patient.BirthDate)
	repo.AssertExpectations(t)
}

func TestRegisterRejectsBadBirthDate(t *testing.T) {
	svc := NewService(new(mockPatientRepo))

	req := validRegistration()
	req.BirthDate = "15-03-2001"
	_, err := svc.Register(context.Background(), req)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestRegisterRejectsDuplicateIdentification(t *testing.T) {
	repo := new(mockPatientRepo)
	repo.On("GetByIdentificationNumber", mock.Anything, "2021-00042").
		Return(&model.Patient{IdentificationNumber: "2021-00042"}, nil)

	svc := NewService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	assert.True(t, apperrors.IsBadRequest(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetNotFound(t *testing.T) {
	id := uuid.New()
	repo := new(mockPatientRepo)
	repo.On("Get", mock.Anything, id).Return(nil, repository.ErrNotFound)

	svc := NewService(repo)

	_, err := svc.Get(context.Background(), id)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	existing := &model.Patient{
		ID:                   id,
		Name:                 "Juan dela Cruz",
		Email:                "juan@example.edu",
		Phone:                "+639170000000",
		Category:             model.PatientCategoryStudent,
		IdentificationNumber: "2021-00042",
	}

	repo := new(mockPatientRepo)
	repo.On("Get", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo)

	newPhone := "+639180000000"
	patient, err := svc.Update(context.Background(), id, &model.UpdatePatientRequest{Phone: &newPhone})
	require.NoError(t, err)

	assert.Equal(t, newPhone, patient.Phone)
	assert.Equal(t, "Juan dela Cruz", patient.Name)
	assert.Equal(t, "2021-00042", patient.IdentificationNumber)
}

func TestUpdateRejectsUnknownCategory(t *testing.T) {
	id := uuid.New()
	repo := new(mockPatientRepo)
	repo.On("Get", mock.Anything, id).Return(&model.Patient{ID: id}, nil)

	svc := NewService(repo)

	bad := "alumni"
	_, err := svc.Update(context.Background(), id, &model.UpdatePatientRequest{Category: &bad})
	assert.True(t, apperrors.IsBadRequest(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
