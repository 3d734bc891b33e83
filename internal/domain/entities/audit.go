package entities

import (
	"strings"
	"time"
)

// AuditRecord is a server-computed activity log entry. The gateway never
// writes these; it only renders them.
type AuditRecord struct {
	ID                string         `json:"id"`
	EntityType        string         `json:"entityType"`
	ActionDescription string         `json:"actionDescription"`
	ActorRole         string         `json:"actorRole,omitempty"`
	User              *User          `json:"user,omitempty"`
	Details           map[string]any `json:"details,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// Activity is the flattened feed shape consumed by the dashboard.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	User        string    `json:"user"`
	Status      string    `json:"status,omitempty"`
}

// ToActivity flattens an audit record into the feed shape: the entity type is
// bucketed, the description falls back to a generic line, and the actor name
// falls back from user to role to "System".
func (r *AuditRecord) ToActivity() Activity {
	activity := Activity{
		ID:          r.ID,
		Type:        "system",
		Description: "Activity recorded",
		Timestamp:   r.CreatedAt,
		User:        "System",
	}

	switch strings.ToLower(r.EntityType) {
	case "appointment":
		activity.Type = "appointment"
	case "patient":
		activity.Type = "patient"
	case "user":
		activity.Type = "user"
	}

	if r.ActionDescription != "" {
		activity.Description = r.ActionDescription
	}

	if r.User != nil && r.User.FirstName != "" {
		activity.User = r.User.FullName()
	} else if r.ActorRole != "" {
		activity.User = r.ActorRole
	}

	if status, ok := r.Details["status"].(string); ok {
		activity.Status = status
	}

	return activity
}
