package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/observability"
)

type contextKey string

const actorContextKey contextKey = "actor"

// SessionClaims are the identity claims carried by the session provider's
// access token.
type SessionClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware is the session/identity bridge: it verifies the bearer token,
// attaches the actor to the request context and keeps the raw token around so
// every upstream call can forward it.
type AuthMiddleware struct {
	secret    []byte
	skipPaths map[string]bool
}

// NewAuthMiddleware creates a new auth middleware. Requests to skipPaths pass
// through unauthenticated.
func NewAuthMiddleware(secret string, skipPaths []string) *AuthMiddleware {
	skip := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = true
	}
	return &AuthMiddleware{secret: []byte(secret), skipPaths: skip}
}

// Handler returns the middleware handler
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, "invalid Authorization header format")
			return
		}

		token := parts[1]
		actor, err := m.parseToken(token)
		if err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("token validation failed")
			respondUnauthorized(w, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) parseToken(tokenString string) (entities.Actor, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return entities.Actor{}, err
	}
	if !token.Valid {
		return entities.Actor{}, jwt.ErrTokenInvalidClaims
	}

	return entities.Actor{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      entities.Role(strings.ToUpper(claims.Role)),
		Token:     tokenString,
	}, nil
}

// ActorFrom returns the authenticated actor attached to the context.
func ActorFrom(ctx context.Context) (entities.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(entities.Actor)
	return actor, ok
}

// WithActor attaches an actor to the context; used by tests.
func WithActor(ctx context.Context, actor entities.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
