package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/whitenlighten/practice-gateway/internal/application/services"
	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/query"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

// Mocks

type MockAppointmentAPI struct {
	mock.Mock
}

func (m *MockAppointmentAPI) ListAppointments(ctx context.Context, token string, p query.ListParams) (*practiceapi.AppointmentPage, error) {
	args := m.Called(ctx, token, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*practiceapi.AppointmentPage), args.Error(1)
}

func (m *MockAppointmentAPI) GetAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentAPI) CreateAppointment(ctx context.Context, token string, req practiceapi.CreateAppointmentRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentAPI) UpdateAppointment(ctx context.Context, token, id string, req practiceapi.UpdateAppointmentRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentAPI) ApproveAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentAPI) CancelAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentAPI) CompleteAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentAPI) PublicBookAppointment(ctx context.Context, req practiceapi.PublicBookingRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

var doctorActor = entities.Actor{ID: "doc-1", Email: "doc@example.com", Role: entities.RoleDoctor, Token: "tok-doc"}
var frontdeskActor = entities.Actor{ID: "fd-1", Email: "fd@example.com", Role: entities.RoleFrontdesk, Token: "tok-fd"}
var adminActor = entities.Actor{ID: "adm-1", Email: "adm@example.com", Role: entities.RoleAdmin, Token: "tok-adm"}

func TestAppointmentService_List(t *testing.T) {
	t.Run("doctor queries always carry their own doctorId", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("ListAppointments", mock.Anything, "tok-doc", mock.MatchedBy(func(p query.ListParams) bool {
			return p.DoctorID == "doc-1"
		})).Return(&practiceapi.AppointmentPage{Records: []entities.Appointment{}}, nil)

		service.List(context.Background(), doctorActor, query.ListParams{})
		api.AssertExpectations(t)
	})

	t.Run("fetch failure yields the empty page, not an error", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("ListAppointments", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		page := service.List(context.Background(), adminActor, query.ListParams{Page: 3, Limit: 10})
		require.NotNil(t, page)
		assert.Empty(t, page.Records)
		assert.Zero(t, page.TotalRecord)
		assert.Equal(t, 3, page.CurrentPage)
	})
}

func TestAppointmentService_Get(t *testing.T) {
	t.Run("doctor cannot read another doctor's appointment", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("GetAppointment", mock.Anything, "tok-doc", "a1").Return(&entities.Appointment{
			ID:       "a1",
			DoctorID: "someone-else",
			Status:   entities.AppointmentStatusPending,
		}, nil)

		_, err := service.Get(context.Background(), doctorActor, "a1")
		require.Error(t, err)
		appErr := err.(*apperrors.AppError)
		assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
		assert.Equal(t, "Insufficient permissions", appErr.Message)
	})
}

func TestAppointmentService_Create(t *testing.T) {
	t.Run("requires patientId, date and timeSlot", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		_, err := service.Create(context.Background(), frontdeskActor, practiceapi.CreateAppointmentRequest{})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, err.(*apperrors.AppError).Type)
		api.AssertNotCalled(t, "CreateAppointment")
	})

	t.Run("doctor cannot create appointments", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		_, err := service.Create(context.Background(), doctorActor, practiceapi.CreateAppointmentRequest{
			PatientID: "p1", Date: "2026-09-14", TimeSlot: "10:00",
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
	})
}

func TestAppointmentService_Approve(t *testing.T) {
	t.Run("doctor approves a pending appointment", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		pending := &entities.Appointment{ID: "a1", DoctorID: "doc-1", Status: entities.AppointmentStatusPending}
		api.On("GetAppointment", mock.Anything, "tok-doc", "a1").Return(pending, nil)
		api.On("ApproveAppointment", mock.Anything, "tok-doc", "a1").Return(&entities.Appointment{
			ID: "a1", Status: entities.AppointmentStatusConfirmed,
		}, nil)

		updated, err := service.Approve(context.Background(), doctorActor, "a1")
		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusConfirmed, updated.Status)
		api.AssertExpectations(t)
	})

	t.Run("frontdesk may never approve", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("GetAppointment", mock.Anything, "tok-fd", "a1").Return(&entities.Appointment{
			ID: "a1", Status: entities.AppointmentStatusPending,
		}, nil)

		_, err := service.Approve(context.Background(), frontdeskActor, "a1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
		api.AssertNotCalled(t, "ApproveAppointment")
	})

	t.Run("cannot approve a confirmed appointment", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("GetAppointment", mock.Anything, "tok-adm", "a1").Return(&entities.Appointment{
			ID: "a1", Status: entities.AppointmentStatusConfirmed,
		}, nil)

		_, err := service.Approve(context.Background(), adminActor, "a1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
		api.AssertNotCalled(t, "ApproveAppointment")
	})
}

func TestAppointmentService_Assign(t *testing.T) {
	t.Run("nurse assigns a nurse on a pending appointment", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)
		nurse := entities.Actor{ID: "n-1", Role: entities.RoleNurse, Token: "tok-n"}

		api.On("GetAppointment", mock.Anything, "tok-n", "a1").Return(&entities.Appointment{
			ID: "a1", Status: entities.AppointmentStatusPending,
		}, nil)
		api.On("UpdateAppointment", mock.Anything, "tok-n", "a1", practiceapi.UpdateAppointmentRequest{
			NurseID: "n-2",
		}).Return(&entities.Appointment{ID: "a1", NurseID: "n-2"}, nil)

		updated, err := service.Assign(context.Background(), nurse, "a1", "", "n-2")
		require.NoError(t, err)
		assert.Equal(t, "n-2", updated.NurseID)
	})

	t.Run("nurse cannot assign a doctor", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)
		nurse := entities.Actor{ID: "n-1", Role: entities.RoleNurse, Token: "tok-n"}

		api.On("GetAppointment", mock.Anything, "tok-n", "a1").Return(&entities.Appointment{
			ID: "a1", Status: entities.AppointmentStatusPending,
		}, nil)

		_, err := service.Assign(context.Background(), nurse, "a1", "doc-2", "")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
		api.AssertNotCalled(t, "UpdateAppointment")
	})

	t.Run("assignment blocked once confirmed", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("GetAppointment", mock.Anything, "tok-adm", "a1").Return(&entities.Appointment{
			ID: "a1", Status: entities.AppointmentStatusConfirmed,
		}, nil)

		_, err := service.Assign(context.Background(), adminActor, "a1", "doc-2", "")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
	})
}

func TestAppointmentService_PublicBook(t *testing.T) {
	valid := practiceapi.PublicBookingRequest{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Phone:     "+2348012345678",
		Date:      "2026-09-20",
		Service:   "Cleaning",
		TimeSlot:  "09:00",
	}

	t.Run("books with a valid request", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		api.On("PublicBookAppointment", mock.Anything, valid).
			Return(&entities.Appointment{ID: "a1", Status: entities.AppointmentStatusPending}, nil)

		appointment, err := service.PublicBook(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusPending, appointment.Status)
	})

	t.Run("rejects missing fields before any upstream call", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		incomplete := valid
		incomplete.Email = ""

		_, err := service.PublicBook(context.Background(), incomplete)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, err.(*apperrors.AppError).Type)
		api.AssertNotCalled(t, "PublicBookAppointment")
	})

	t.Run("rejects a malformed phone number", func(t *testing.T) {
		api := new(MockAppointmentAPI)
		service := services.NewAppointmentService(api)

		badPhone := valid
		badPhone.Phone = "not-a-phone"

		_, err := service.PublicBook(context.Background(), badPhone)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, err.(*apperrors.AppError).Type)
	})
}
