package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
)

// PDFService defines the interface for document exports
type PDFService interface {
	PatientDetails(ctx context.Context, actor entities.Actor, patientID string) ([]byte, string, error)
}

// PDFHandler handles document export requests
type PDFHandler struct {
	service PDFService
}

// NewPDFHandler creates a new PDF handler
func NewPDFHandler(service PDFService) *PDFHandler {
	return &PDFHandler{service: service}
}

// PatientDetails handles GET /api/patients/{patientId}/pdf
func (h *PDFHandler) PatientDetails(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID := r.PathValue("patientId")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient number is required")
		return
	}

	pdf, filename, err := h.service.PatientDetails(r.Context(), actor, patientID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
