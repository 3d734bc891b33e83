package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.AppointmentPage
	Get(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error)
	Create(ctx context.Context, actor entities.Actor, req practiceapi.CreateAppointmentRequest) (*entities.Appointment, error)
	Approve(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error)
	Cancel(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error)
	Complete(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error)
	Assign(ctx context.Context, actor entities.Actor, id, doctorID, nurseID string) (*entities.Appointment, error)
	PublicBook(ctx context.Context, req practiceapi.PublicBookingRequest) (*entities.Appointment, error)
	AllowedActions(actor entities.Actor, appointment *entities.Appointment) []string
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List handles GET /api/appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page := h.service.List(r.Context(), actor, query.ParseListParams(r.URL.Query()))
	respondWithJSON(w, http.StatusOK, page)
}

// Get handles GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	appointment, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    appointment,
		"actions": h.service.AllowedActions(actor, appointment),
	})
}

// Create handles POST /api/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req practiceapi.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, appointment)
}

// Approve handles POST /api/appointments/{id}/approve
func (h *AppointmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// Cancel handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

// Complete handles POST /api/appointments/{id}/complete
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete)
}

func (h *AppointmentHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error),
) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	appointment, err := op(r.Context(), actor, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, appointment)
}

type assignRequest struct {
	DoctorID string `json:"doctorId"`
	NurseID  string `json:"nurseId"`
}

// Assign handles PATCH /api/appointments/{id}/assign
func (h *AppointmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.DoctorID == "" && req.NurseID == "" {
		respondWithError(w, http.StatusBadRequest, "doctorId or nurseId is required")
		return
	}

	appointment, err := h.service.Assign(r.Context(), actor, id, req.DoctorID, req.NurseID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, appointment)
}

// PublicBook handles POST /api/public/appointments
func (h *AppointmentHandler) PublicBook(w http.ResponseWriter, r *http.Request) {
	var req practiceapi.PublicBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.PublicBook(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, appointment)
}
