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

type MockPatientAPI struct {
	mock.Mock
}

func (m *MockPatientAPI) ListPatients(ctx context.Context, token string, p query.ListParams) (*practiceapi.PatientPage, error) {
	args := m.Called(ctx, token, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*practiceapi.PatientPage), args.Error(1)
}

func (m *MockPatientAPI) ListArchivedPatients(ctx context.Context, token string, p query.ListParams) (*practiceapi.PatientPage, error) {
	args := m.Called(ctx, token, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*practiceapi.PatientPage), args.Error(1)
}

func (m *MockPatientAPI) GetPatient(ctx context.Context, token, id string) (*entities.Patient, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientAPI) GetPatientByPatientID(ctx context.Context, token, patientID string) (*entities.Patient, error) {
	args := m.Called(ctx, token, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientAPI) CreatePatient(ctx context.Context, token string, req practiceapi.CreatePatientRequest) (*entities.Patient, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientAPI) UpdatePatient(ctx context.Context, token, id string, req practiceapi.UpdatePatientRequest) (*entities.Patient, error) {
	args := m.Called(ctx, token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientAPI) ApprovePatient(ctx context.Context, token, patientID string) error {
	args := m.Called(ctx, token, patientID)
	return args.Error(0)
}

func (m *MockPatientAPI) ArchivePatient(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockPatientAPI) UnarchivePatient(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockPatientAPI) PatientAppointments(ctx context.Context, token, id string, p query.ListParams) (*practiceapi.AppointmentPage, error) {
	args := m.Called(ctx, token, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*practiceapi.AppointmentPage), args.Error(1)
}

func TestPatientService_List(t *testing.T) {
	t.Run("frontdesk search passes through", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("ListPatients", mock.Anything, "tok-fd", mock.MatchedBy(func(p query.ListParams) bool {
			return p.Q == "john" && p.DoctorID == ""
		})).Return(&practiceapi.PatientPage{
			Records:  []entities.Patient{{ID: "p1", FirstName: "John"}},
			PageInfo: query.PageInfo{TotalRecord: 1, CurrentPage: 1, TotalPage: 1, SetLimit: 20},
		}, nil)

		page := service.List(context.Background(), frontdeskActor, query.ListParams{Q: "john"})
		require.Len(t, page.Records, 1)
		assert.Equal(t, 1, page.TotalRecord)
	})

	t.Run("doctor scope is injected", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("ListPatients", mock.Anything, "tok-doc", mock.MatchedBy(func(p query.ListParams) bool {
			return p.DoctorID == "doc-1"
		})).Return(&practiceapi.PatientPage{Records: []entities.Patient{}}, nil)

		service.List(context.Background(), doctorActor, query.ListParams{})
		api.AssertExpectations(t)
	})

	t.Run("upstream failure renders the empty page", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("ListPatients", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("timeout"))

		page := service.List(context.Background(), adminActor, query.ListParams{})
		assert.Empty(t, page.Records)
		assert.Zero(t, page.TotalRecord)
	})

	t.Run("patient role sees nothing", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		patient := entities.Actor{ID: "u1", Role: entities.RolePatient, Token: "tok-p"}
		page := service.List(context.Background(), patient, query.ListParams{})
		assert.Empty(t, page.Records)
		api.AssertNotCalled(t, "ListPatients")
	})
}

func TestPatientService_ListArchived(t *testing.T) {
	t.Run("frontdesk cannot browse the archive", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		page := service.ListArchived(context.Background(), frontdeskActor, query.ListParams{})
		assert.Empty(t, page.Records)
		api.AssertNotCalled(t, "ListArchivedPatients")
	})

	t.Run("admin can", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("ListArchivedPatients", mock.Anything, "tok-adm", mock.Anything).
			Return(&practiceapi.PatientPage{Records: []entities.Patient{{ID: "p1"}}}, nil)

		page := service.ListArchived(context.Background(), adminActor, query.ListParams{})
		assert.Len(t, page.Records, 1)
	})
}

func TestPatientService_Create(t *testing.T) {
	t.Run("stamps registering actor and channel", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("CreatePatient", mock.Anything, "tok-fd", mock.MatchedBy(func(req practiceapi.CreatePatientRequest) bool {
			return req.RegisteredByID == "fd-1" && req.RegistrationType == entities.RoleFrontdesk
		})).Return(&entities.Patient{ID: "p1", Status: entities.PatientStatusPending}, nil)

		created, err := service.Create(context.Background(), frontdeskActor, practiceapi.CreatePatientRequest{
			FirstName: "John",
			LastName:  "Doe",
			Phone:     "+2348012345678",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.PatientStatusPending, created.Status)
		api.AssertExpectations(t)
	})

	t.Run("doctor cannot register patients", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		_, err := service.Create(context.Background(), doctorActor, practiceapi.CreatePatientRequest{
			FirstName: "John", LastName: "Doe", Phone: "+2348012345678",
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
	})

	t.Run("rejects a malformed phone", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		_, err := service.Create(context.Background(), frontdeskActor, practiceapi.CreatePatientRequest{
			FirstName: "John", LastName: "Doe", Phone: "abc",
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, err.(*apperrors.AppError).Type)
	})
}

func TestPatientService_Lifecycle(t *testing.T) {
	t.Run("approve admits a pending patient", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("GetPatientByPatientID", mock.Anything, "tok-adm", "DC-0001").
			Return(&entities.Patient{ID: "p1", PatientID: "DC-0001", Status: entities.PatientStatusPending}, nil)
		api.On("ApprovePatient", mock.Anything, "tok-adm", "DC-0001").Return(nil)

		require.NoError(t, service.Approve(context.Background(), adminActor, "DC-0001"))
		api.AssertExpectations(t)
	})

	t.Run("approve is blocked once active", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("GetPatientByPatientID", mock.Anything, "tok-adm", "DC-0001").
			Return(&entities.Patient{ID: "p1", Status: entities.PatientStatusActive}, nil)

		err := service.Approve(context.Background(), adminActor, "DC-0001")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, err.(*apperrors.AppError).Type)
		api.AssertNotCalled(t, "ApprovePatient")
	})

	t.Run("archive requires an active record", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("GetPatient", mock.Anything, "tok-adm", "p1").
			Return(&entities.Patient{ID: "p1", Status: entities.PatientStatusArchived}, nil)

		err := service.Archive(context.Background(), adminActor, "p1")
		require.Error(t, err)
		api.AssertNotCalled(t, "ArchivePatient")
	})

	t.Run("unarchive restores an archived record", func(t *testing.T) {
		api := new(MockPatientAPI)
		service := services.NewPatientService(api)

		api.On("GetPatient", mock.Anything, "tok-adm", "p1").
			Return(&entities.Patient{ID: "p1", Status: entities.PatientStatusArchived}, nil)
		api.On("UnarchivePatient", mock.Anything, "tok-adm", "p1").Return(nil)

		require.NoError(t, service.Unarchive(context.Background(), adminActor, "p1"))
		api.AssertExpectations(t)
	})
}
