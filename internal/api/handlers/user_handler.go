package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// UserService defines the interface for staff account operations
type UserService interface {
	List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.UserPage
	Get(ctx context.Context, actor entities.Actor, id string) (*entities.User, error)
	Create(ctx context.Context, actor entities.Actor, req practiceapi.CreateUserRequest) (*entities.User, error)
	UpdateInfo(ctx context.Context, actor entities.Actor, id string, req practiceapi.UpdateUserRequest) (*entities.User, error)
	UpdateRole(ctx context.Context, actor entities.Actor, id string, role entities.Role) (*entities.User, error)
	Reactivate(ctx context.Context, actor entities.Actor, id string) (*entities.User, error)
	Delete(ctx context.Context, actor entities.Actor, id string) error
}

// UserHandler handles staff account requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page := h.service.List(r.Context(), actor, query.ParseListParams(r.URL.Query()))
	respondWithJSON(w, http.StatusOK, page)
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	user, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, user)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req practiceapi.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, user)
}

// UpdateInfo handles PATCH /api/users/{id}
func (h *UserHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var req practiceapi.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.UpdateInfo(r.Context(), actor, id, req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, user)
}

type updateRoleRequest struct {
	Role entities.Role `json:"role"`
}

// UpdateRole handles PATCH /api/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.UpdateRole(r.Context(), actor, id, req.Role)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, user)
}

// Reactivate handles POST /api/users/{id}/activate
func (h *UserHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	user, err := h.service.Reactivate(r.Context(), actor, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, nil)
}
