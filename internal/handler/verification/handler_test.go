package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wexxqt/ecatsulta-api/internal/middleware"
	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	verificationService "github.com/wexxqt/ecatsulta-api/internal/service/verification"
	"github.com/wexxqt/ecatsulta-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "verification")

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

func setupRouter(repo *mockAppointmentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())

	h := NewHandler(verificationService.NewService(repo), testMetrics)
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestVerifyCodeEndpoint(t *testing.T) {
	apt := &model.Appointment{
		ID:              uuid.New(),
		AppointmentCode: "ABC-123456-XYZ",
		Status:          model.AppointmentStatusScheduled,
	}

	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, "ABC-123456-XYZ").Return(apt, nil)

	engine := setupRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/ABC-123456-XYZ", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "ABC-123456-XYZ", resp.Data.AppointmentCode)
}

func TestVerifyCodeEndpointNotFound(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	engine := setupRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/ABC-000000-XYZ", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyScanEndpoint(t *testing.T) {
	apt := &model.Appointment{ID: uuid.New(), AppointmentCode: "ABC-123456-XYZ"}

	repo := new(mockAppointmentRepo)
	repo.On("GetByCode", mock.Anything, "ABC-123456-XYZ").Return(apt, nil)

	engine := setupRouter(repo)

	body := `{"rawValue":"https://clinic.example.edu/verify?code=ABC-123456-XYZ"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify/scan", strings.NewReader(body))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyScanEndpointEmptyBody(t *testing.T) {
	engine := setupRouter(new(mockAppointmentRepo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify/scan", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
