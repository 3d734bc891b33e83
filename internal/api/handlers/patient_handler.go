package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// PatientService defines the interface for patient operations
type PatientService interface {
	List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.PatientPage
	ListArchived(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.PatientPage
	Get(ctx context.Context, actor entities.Actor, id string) (*entities.Patient, error)
	GetByPatientID(ctx context.Context, actor entities.Actor, patientID string) (*entities.Patient, error)
	Create(ctx context.Context, actor entities.Actor, req practiceapi.CreatePatientRequest) (*entities.Patient, error)
	Update(ctx context.Context, actor entities.Actor, id string, req practiceapi.UpdatePatientRequest) (*entities.Patient, error)
	Approve(ctx context.Context, actor entities.Actor, patientID string) error
	Archive(ctx context.Context, actor entities.Actor, id string) error
	Unarchive(ctx context.Context, actor entities.Actor, id string) error
	AppointmentHistory(ctx context.Context, actor entities.Actor, id string, p query.ListParams) *practiceapi.AppointmentPage
	AllowedActions(actor entities.Actor, patient *entities.Patient) []string
}

// PatientHandler handles patient requests
type PatientHandler struct {
	service PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// List handles GET /api/patients
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page := h.service.List(r.Context(), actor, query.ParseListParams(r.URL.Query()))
	respondWithJSON(w, http.StatusOK, page)
}

// ListArchived handles GET /api/patients/archived
func (h *PatientHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page := h.service.ListArchived(r.Context(), actor, query.ParseListParams(r.URL.Query()))
	respondWithJSON(w, http.StatusOK, page)
}

// Get handles GET /api/patients/{id}
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	patient, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    patient,
		"actions": h.service.AllowedActions(actor, patient),
	})
}

// GetByPatientID handles GET /api/patients/number/{patientId}
func (h *PatientHandler) GetByPatientID(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID := r.PathValue("patientId")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient number is required")
		return
	}

	patient, err := h.service.GetByPatientID(r.Context(), actor, patientID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, patient)
}

// Create handles POST /api/patients
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req practiceapi.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patient, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, patient)
}

// Update handles PATCH /api/patients/{id}
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	var req practiceapi.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patient, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, patient)
}

// Approve handles POST /api/patients/{patientId}/approve
func (h *PatientHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "patientId", h.service.Approve)
}

// Archive handles POST /api/patients/{id}/archive
func (h *PatientHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "id", h.service.Archive)
}

// Unarchive handles POST /api/patients/{id}/unarchive
func (h *PatientHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "id", h.service.Unarchive)
}

func (h *PatientHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	pathKey string,
	op func(ctx context.Context, actor entities.Actor, id string) error,
) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue(pathKey)
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	if err := op(r.Context(), actor, id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, nil)
}

// AppointmentHistory handles GET /api/patients/{id}/appointments
func (h *PatientHandler) AppointmentHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	page := h.service.AppointmentHistory(r.Context(), actor, id, query.ParseListParams(r.URL.Query()))
	respondWithJSON(w, http.StatusOK, page)
}
