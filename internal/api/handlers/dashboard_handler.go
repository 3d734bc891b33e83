package handlers

import (
	"context"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/application/services"
	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/domain/policy"
)

// DashboardService defines the interface for the dashboard overview
type DashboardService interface {
	Overview(ctx context.Context, actor entities.Actor) *services.DashboardOverview
}

// DashboardHandler handles dashboard and identity requests
type DashboardHandler struct {
	service DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview handles GET /api/dashboard
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.service.Overview(r.Context(), actor))
}

// Me handles GET /api/me. It returns the authenticated identity together with
// the navigation items and permitted actions the web app needs for rendering.
func (h *DashboardHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"id":        actor.ID,
			"email":     actor.Email,
			"firstName": actor.FirstName,
			"lastName":  actor.LastName,
			"role":      actor.Role,
		},
		"navigation": policy.Navigation(actor.Role),
		"permissions": map[string][]string{
			"appointments":  policy.Permitted(actor.Role, policy.ResourceAppointments, "").List(),
			"patients":      policy.Permitted(actor.Role, policy.ResourcePatients, "").List(),
			"clinicalNotes": policy.Permitted(actor.Role, policy.ResourceClinicalNotes, "").List(),
			"users":         policy.Permitted(actor.Role, policy.ResourceUsers, "").List(),
			"audit":         policy.Permitted(actor.Role, policy.ResourceAudit, "").List(),
		},
	})
}
