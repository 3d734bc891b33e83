package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/api/middleware"
	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithData wraps a successful result in the tagged envelope
func respondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeForbidden:
			respondWithError(w, http.StatusForbidden, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}

// requireActor fetches the authenticated actor or writes a 401
func requireActor(w http.ResponseWriter, r *http.Request) (entities.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}
