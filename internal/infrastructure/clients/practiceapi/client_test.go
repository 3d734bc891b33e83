package practiceapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"

	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/query"
	"github.com/whitenlighten/practice-gateway/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*practiceapi.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := practiceapi.NewClient(&config.UpstreamConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestClient_ListPatients(t *testing.T) {
	t.Run("sends search query with default field projection", func(t *testing.T) {
		var gotQuery string
		var gotAuth string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "/patients", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"data": {
					"data": [{"id":"p1","firstName":"John","lastName":"Doe","patientId":"DC-0001","status":"ACTIVE"}],
					"meta": {"total":1,"page":1,"limit":20,"pages":1}
				}
			}`))
		})

		page, err := client.ListPatients(context.Background(), "tok-123", query.ListParams{Q: "john"})
		require.NoError(t, err)

		assert.Equal(t, "Bearer tok-123", gotAuth)
		assert.Contains(t, gotQuery, "q=john")
		assert.Contains(t, gotQuery, "fields=id%2ClastName%2CfirstName%2CpatientId")

		require.Len(t, page.Records, 1)
		assert.Equal(t, "DC-0001", page.Records[0].PatientID)
		assert.Equal(t, 1, page.TotalRecord)
		assert.Equal(t, 1, page.TotalPage)
		assert.Equal(t, 1, page.CurrentPage)
	})

	t.Run("normalizes multi page meta", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"success": true,
				"data": {"data": [], "meta": {"total":92,"page":2,"limit":20,"pages":5}}
			}`))
		})

		page, err := client.ListPatients(context.Background(), "tok", query.ListParams{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, page.TotalPage)
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 92, page.TotalRecord)
		assert.Empty(t, page.Records)
	})

	t.Run("network failure surfaces as external error", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		client := practiceapi.NewClient(&config.UpstreamConfig{
			BaseURL: server.URL,
			Timeout: time.Second,
		})

		_, err := client.ListPatients(context.Background(), "tok", query.ListParams{})
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
	})
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status   int
		wantType apperrors.ErrorType
	}{
		{http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{http.StatusUnauthorized, apperrors.ErrorTypeUnauthorized},
		{http.StatusForbidden, apperrors.ErrorTypeForbidden},
		{http.StatusNotFound, apperrors.ErrorTypeNotFound},
		{http.StatusConflict, apperrors.ErrorTypeConflict},
		{http.StatusInternalServerError, apperrors.ErrorTypeExternal},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"success":false,"message":"upstream said no"}`))
		})

		_, err := client.GetPatient(context.Background(), "tok", "p1")
		require.Error(t, err, "status %d", tc.status)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok, "status %d", tc.status)
		assert.Equal(t, tc.wantType, appErr.Type, "status %d", tc.status)
	}
}

func TestClient_ForbiddenMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false}`))
	})

	_, err := client.GetPatient(context.Background(), "tok", "p1")
	require.Error(t, err)
	appErr := err.(*apperrors.AppError)
	assert.Equal(t, "Insufficient permissions", appErr.Message)
}

func TestClient_CreateAppointment_ForcesPending(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success":true,"data":{"id":"a1","status":"PENDING"}}`))
	})

	_, err := client.CreateAppointment(context.Background(), "tok", practiceapi.CreateAppointmentRequest{
		PatientID: "p1",
		Date:      "2026-09-14",
		TimeSlot:  "10:00",
		Status:    "CONFIRMED",
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", gotBody["status"])
}

func TestClient_GetClinicalNote(t *testing.T) {
	t.Run("requests the single note by id", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/patients/p1/clinical-notes", r.URL.Path)
			assert.Equal(t, "n1", r.URL.Query().Get("noteId"))
			w.Write([]byte(`{
				"success": true,
				"data": {"data": [{"id":"n1","diagnosis":"caries"}], "meta": {"total":1,"page":1,"limit":1,"pages":1}}
			}`))
		})

		note, err := client.GetClinicalNote(context.Background(), "tok", "p1", "n1")
		require.NoError(t, err)
		assert.Equal(t, "n1", note.ID)
	})

	t.Run("empty envelope is not found", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"data":[],"meta":{"total":0,"page":1,"limit":1,"pages":0}}}`))
		})

		_, err := client.GetClinicalNote(context.Background(), "tok", "p1", "missing")
		require.Error(t, err)
		appErr := err.(*apperrors.AppError)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
	})
}

func TestClient_PublicBook_NoAuthHeader(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments/public-book", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":{"id":"a9","status":"PENDING"}}`))
	})

	appointment, err := client.PublicBookAppointment(context.Background(), practiceapi.PublicBookingRequest{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Phone:     "+2348012345678",
		Date:      "2026-09-20",
		Service:   "Cleaning",
		TimeSlot:  "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "a9", appointment.ID)
}
