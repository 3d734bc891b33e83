package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// ClinicalNoteService defines the interface for clinical note operations
type ClinicalNoteService interface {
	List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.ClinicalNotePage
	Get(ctx context.Context, actor entities.Actor, patientID, noteID string) (*entities.ClinicalNote, error)
	Create(ctx context.Context, actor entities.Actor, patientID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error)
	Update(ctx context.Context, actor entities.Actor, patientID, noteID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error)
}

// ClinicalNoteHandler handles clinical note requests
type ClinicalNoteHandler struct {
	service ClinicalNoteService
}

// NewClinicalNoteHandler creates a new clinical note handler
func NewClinicalNoteHandler(service ClinicalNoteService) *ClinicalNoteHandler {
	return &ClinicalNoteHandler{service: service}
}

// List handles GET /api/patients/{patientId}/notes
func (h *ClinicalNoteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID := r.PathValue("patientId")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	p := query.ParseListParams(r.URL.Query())
	p.PatientID = patientID

	page := h.service.List(r.Context(), actor, p)
	respondWithJSON(w, http.StatusOK, page)
}

// Get handles GET /api/patients/{patientId}/notes/{noteId}
func (h *ClinicalNoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID := r.PathValue("patientId")
	noteID := r.PathValue("noteId")
	if patientID == "" || noteID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID and note ID are required")
		return
	}

	note, err := h.service.Get(r.Context(), actor, patientID, noteID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, note)
}

// Create handles POST /api/patients/{patientId}/notes
func (h *ClinicalNoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID := r.PathValue("patientId")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	var note entities.ClinicalNote
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Create(r.Context(), actor, patientID, &note)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, created)
}

// Update handles PATCH /api/patients/{patientId}/notes/{noteId}
func (h *ClinicalNoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID := r.PathValue("patientId")
	noteID := r.PathValue("noteId")
	if patientID == "" || noteID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID and note ID are required")
		return
	}

	var note entities.ClinicalNote
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.service.Update(r.Context(), actor, patientID, noteID, &note)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, updated)
}
