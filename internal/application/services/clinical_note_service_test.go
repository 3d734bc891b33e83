package services_test

import (
	"context"
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

// MockClinicalNoteAPI is a mock implementation of practiceapi.ClinicalNoteAPI
type MockClinicalNoteAPI struct {
	mock.Mock
}

func (m *MockClinicalNoteAPI) ListClinicalNotes(ctx context.Context, token string, p query.ListParams) (*practiceapi.ClinicalNotePage, error) {
	args := m.Called(ctx, token, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*practiceapi.ClinicalNotePage), args.Error(1)
}

func (m *MockClinicalNoteAPI) GetClinicalNote(ctx context.Context, token, patientID, noteID string) (*entities.ClinicalNote, error) {
	args := m.Called(ctx, token, patientID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClinicalNote), args.Error(1)
}

func (m *MockClinicalNoteAPI) CreateClinicalNote(ctx context.Context, token, patientID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error) {
	args := m.Called(ctx, token, patientID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClinicalNote), args.Error(1)
}

func (m *MockClinicalNoteAPI) UpdateClinicalNote(ctx context.Context, token, patientID, noteID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error) {
	args := m.Called(ctx, token, patientID, noteID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClinicalNote), args.Error(1)
}

func TestClinicalNoteService_Create(t *testing.T) {
	dentist := entities.Actor{
		ID:        "doc-2",
		Email:     "amara@example.com",
		FirstName: "Amara",
		LastName:  "Nwosu",
		Role:      entities.RoleDoctor,
		Token:     "tok-amara",
	}

	t.Run("stamps the signing dentist from the actor", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		api.On("CreateClinicalNote", mock.Anything, "tok-amara", "pat-1", mock.MatchedBy(func(n *entities.ClinicalNote) bool {
			return n.PatientID == "pat-1" &&
				n.DentistName == "Amara Nwosu" &&
				n.DentistSignature == "AN" &&
				n.Date != "" &&
				n.ExtendedData != nil
		})).Return(&entities.ClinicalNote{ID: "note-1"}, nil)

		note, err := service.Create(context.Background(), dentist, "pat-1", &entities.ClinicalNote{
			ChiefComplaint: "toothache, upper left",
			Observations:   "visible caries on 26",
			Diagnosis:      "deep caries",
			TreatmentPlan:  "restoration, review in two weeks",
		})

		require.NoError(t, err)
		assert.Equal(t, "note-1", note.ID)
		api.AssertExpectations(t)
	})

	t.Run("keeps an explicit encounter date", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		api.On("CreateClinicalNote", mock.Anything, "tok-amara", "pat-1", mock.MatchedBy(func(n *entities.ClinicalNote) bool {
			return n.Date == "2026-08-30"
		})).Return(&entities.ClinicalNote{ID: "note-2"}, nil)

		_, err := service.Create(context.Background(), dentist, "pat-1", &entities.ClinicalNote{
			Date:           "2026-08-30",
			ChiefComplaint: "routine check",
		})

		require.NoError(t, err)
	})

	t.Run("frontdesk cannot author notes", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		_, err := service.Create(context.Background(), frontdeskActor, "pat-1", &entities.ClinicalNote{})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
		assert.Equal(t, "Insufficient permissions", appErr.Message)
		api.AssertNotCalled(t, "CreateClinicalNote")
	})

	t.Run("requires a patient id", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		_, err := service.Create(context.Background(), dentist, "", &entities.ClinicalNote{})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestClinicalNoteService_Get(t *testing.T) {
	patient := entities.Actor{ID: "user-7", Email: "pat@example.com", Role: entities.RolePatient, Token: "tok-pat"}

	t.Run("patient cannot read another patient's note", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		patients := new(MockPatientAPI)
		service := services.NewClinicalNoteService(api, patients)

		patients.On("GetPatient", mock.Anything, "tok-pat", "pat-other").
			Return(&entities.Patient{ID: "pat-other", UserID: "user-9"}, nil)

		_, err := service.Get(context.Background(), patient, "pat-other", "note-9")

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
		assert.Equal(t, "Insufficient permissions", appErr.Message)
		api.AssertNotCalled(t, "GetClinicalNote")
	})

	t.Run("patient reads a note on their own record", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		patients := new(MockPatientAPI)
		service := services.NewClinicalNoteService(api, patients)

		patients.On("GetPatient", mock.Anything, "tok-pat", "pat-7").
			Return(&entities.Patient{ID: "pat-7", UserID: "user-7"}, nil)
		api.On("GetClinicalNote", mock.Anything, "tok-pat", "pat-7", "note-1").
			Return(&entities.ClinicalNote{ID: "note-1", PatientID: "pat-7"}, nil)

		note, err := service.Get(context.Background(), patient, "pat-7", "note-1")

		require.NoError(t, err)
		assert.Equal(t, "note-1", note.ID)
		api.AssertExpectations(t)
	})

	t.Run("doctor reads without an ownership lookup", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		patients := new(MockPatientAPI)
		service := services.NewClinicalNoteService(api, patients)

		api.On("GetClinicalNote", mock.Anything, "tok-doc", "pat-1", "note-1").
			Return(&entities.ClinicalNote{ID: "note-1"}, nil)

		_, err := service.Get(context.Background(), doctorActor, "pat-1", "note-1")

		require.NoError(t, err)
		patients.AssertNotCalled(t, "GetPatient")
	})
}

func TestClinicalNoteService_List(t *testing.T) {
	t.Run("patients only ever see their own notes", func(t *testing.T) {
		patient := entities.Actor{ID: "pat-7", Email: "pat@example.com", Role: entities.RolePatient, Token: "tok-pat"}

		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		api.On("ListClinicalNotes", mock.Anything, "tok-pat", mock.MatchedBy(func(p query.ListParams) bool {
			return p.PatientID == "pat-7"
		})).Return(&practiceapi.ClinicalNotePage{
			Records:  []entities.ClinicalNote{{ID: "note-1", PatientID: "pat-7"}},
			PageInfo: query.PageInfo{TotalRecord: 1, CurrentPage: 1, TotalPage: 1, SetLimit: 20},
		}, nil)

		page := service.List(context.Background(), patient, query.ListParams{PatientID: "someone-else"})

		assert.Len(t, page.Records, 1)
		api.AssertExpectations(t)
	})

	t.Run("frontdesk gets the empty page without an upstream call", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		page := service.List(context.Background(), frontdeskActor, query.ListParams{Page: 3, Limit: 10})

		assert.Empty(t, page.Records)
		assert.Equal(t, 3, page.CurrentPage)
		api.AssertNotCalled(t, "ListClinicalNotes")
	})

	t.Run("upstream failure degrades to the empty page", func(t *testing.T) {
		api := new(MockClinicalNoteAPI)
		service := services.NewClinicalNoteService(api, new(MockPatientAPI))

		api.On("ListClinicalNotes", mock.Anything, "tok-doc", mock.Anything).
			Return(nil, apperrors.NewExternalError("practice API unreachable", nil))

		page := service.List(context.Background(), doctorActor, query.ListParams{})

		assert.Empty(t, page.Records)
		assert.Zero(t, page.TotalRecord)
	})
}
