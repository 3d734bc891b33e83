package handlers

import (
	"context"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/application/services"
	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// AuditService defines the interface for the activity feed
type AuditService interface {
	RecentActivities(ctx context.Context, actor entities.Actor, p query.ListParams) *services.ActivityFeed
}

// AuditHandler handles activity feed requests
type AuditHandler struct {
	service AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /api/audit
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	feed := h.service.RecentActivities(r.Context(), actor, query.ParseListParams(r.URL.Query()))
	respondWithJSON(w, http.StatusOK, feed)
}
