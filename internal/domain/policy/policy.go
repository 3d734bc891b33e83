// Package policy is the single authority for role-based access decisions.
// Permissions are computed here both when rendering available actions and
// again when executing a mutating call, so hiding a button is never the only
// guard.
package policy

import (
	"sort"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
)

// Action is the closed action vocabulary.
type Action string

const (
	ActionView         Action = "view"
	ActionCreate       Action = "create"
	ActionEdit         Action = "edit"
	ActionApprove      Action = "approve"
	ActionCancel       Action = "cancel"
	ActionComplete     Action = "complete"
	ActionAssignDoctor Action = "assign_doctor"
	ActionAssignNurse  Action = "assign_nurse"
	ActionArchive      Action = "archive"
	ActionUnarchive    Action = "unarchive"
	ActionManageUsers  Action = "manage_users"
)

// Resource identifies a resource type the policy rules over.
type Resource string

const (
	ResourceAppointments  Resource = "appointments"
	ResourcePatients      Resource = "patients"
	ResourceClinicalNotes Resource = "clinical_notes"
	ResourceUsers         Resource = "users"
	ResourceAudit         Resource = "audit"
)

// ActionSet is a set of permitted actions.
type ActionSet map[Action]struct{}

// Has reports whether the set contains the action.
func (s ActionSet) Has(action Action) bool {
	_, ok := s[action]
	return ok
}

// List returns the actions in stable order, for inclusion in responses.
func (s ActionSet) List() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}

func newSet(actions ...Action) ActionSet {
	s := make(ActionSet, len(actions))
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

// Permitted returns the actions the role may perform on a resource in the
// given state. The state is the resource's current status string; pass the
// empty string when the decision is state-independent (for example when
// rendering navigation).
func Permitted(role entities.Role, resource Resource, state string) ActionSet {
	base := rolePermissions(role, resource)
	return trimByState(base, resource, state)
}

// Can reports whether the role may perform the action on a resource in the
// given state.
func Can(role entities.Role, resource Resource, state string, action Action) bool {
	return Permitted(role, resource, state).Has(action)
}

func rolePermissions(role entities.Role, resource Resource) ActionSet {
	switch role {
	case entities.RolePatient:
		// Self-scoped reads only; scope is enforced by ListScope.
		switch resource {
		case ResourceAppointments, ResourceClinicalNotes:
			return newSet(ActionView)
		}

	case entities.RoleFrontdesk:
		switch resource {
		case ResourceAppointments:
			return newSet(ActionView, ActionCreate)
		case ResourcePatients:
			return newSet(ActionView, ActionCreate, ActionEdit)
		case ResourceAudit:
			return newSet(ActionView)
		}

	case entities.RoleNurse:
		switch resource {
		case ResourceAppointments:
			return newSet(ActionView, ActionCreate, ActionAssignNurse)
		case ResourcePatients:
			return newSet(ActionView, ActionCreate, ActionEdit)
		case ResourceAudit:
			return newSet(ActionView)
		}

	case entities.RoleDoctor:
		switch resource {
		case ResourceAppointments:
			return newSet(ActionView, ActionApprove, ActionCancel, ActionComplete)
		case ResourcePatients:
			return newSet(ActionView)
		case ResourceClinicalNotes:
			return newSet(ActionView, ActionCreate, ActionEdit)
		case ResourceAudit:
			return newSet(ActionView)
		}

	case entities.RoleAdmin, entities.RoleSuperadmin:
		switch resource {
		case ResourceAppointments:
			return newSet(ActionView, ActionCreate, ActionEdit, ActionApprove,
				ActionCancel, ActionComplete, ActionAssignDoctor, ActionAssignNurse)
		case ResourcePatients:
			return newSet(ActionView, ActionCreate, ActionEdit, ActionApprove,
				ActionArchive, ActionUnarchive)
		case ResourceClinicalNotes:
			return newSet(ActionView)
		case ResourceUsers:
			return newSet(ActionView, ActionCreate, ActionEdit, ActionManageUsers)
		case ResourceAudit:
			return newSet(ActionView)
		}
	}

	return newSet()
}

// trimByState removes actions the resource's current status does not allow.
// This mirrors the appointment and patient lifecycles; the remote API remains
// the authority and may still reject a transition the gateway allows.
func trimByState(base ActionSet, resource Resource, state string) ActionSet {
	if state == "" {
		return base
	}

	out := make(ActionSet, len(base))
	for action := range base {
		if stateAllows(resource, state, action) {
			out[action] = struct{}{}
		}
	}
	return out
}

func stateAllows(resource Resource, state string, action Action) bool {
	switch resource {
	case ResourceAppointments:
		status := entities.AppointmentStatus(state)
		switch action {
		case ActionApprove:
			return status == entities.AppointmentStatusPending
		case ActionComplete:
			return status == entities.AppointmentStatusConfirmed
		case ActionCancel:
			return status == entities.AppointmentStatusPending ||
				status == entities.AppointmentStatusConfirmed
		case ActionAssignDoctor, ActionAssignNurse:
			return status == entities.AppointmentStatusPending
		}

	case ResourcePatients:
		status := entities.PatientStatus(state)
		switch action {
		case ActionApprove:
			return status == entities.PatientStatusPending
		case ActionArchive:
			return status == entities.PatientStatusActive
		case ActionUnarchive:
			return status == entities.PatientStatusArchived
		}
	}

	return true
}

// CanTransition reports whether an appointment may move between the two
// statuses: PENDING -> CONFIRMED -> COMPLETED, with cancellation allowed from
// PENDING or CONFIRMED. Nothing leaves CANCELLED or COMPLETED.
func CanTransition(from, to entities.AppointmentStatus) bool {
	switch from {
	case entities.AppointmentStatusPending:
		return to == entities.AppointmentStatusConfirmed ||
			to == entities.AppointmentStatusCancelled
	case entities.AppointmentStatusConfirmed:
		return to == entities.AppointmentStatusCompleted ||
			to == entities.AppointmentStatusCancelled
	}
	return false
}

// Scope restricts which records a list query may return.
type Scope struct {
	// DoctorID forces a doctorId filter on every list query.
	DoctorID string
	// PatientID forces a patientId filter on every list query.
	PatientID string
}

// ListScope returns the list scope for the actor: doctors and patients only
// ever see their own records, everyone else queries globally.
func ListScope(actor entities.Actor) Scope {
	switch actor.Role {
	case entities.RoleDoctor:
		return Scope{DoctorID: actor.ID}
	case entities.RolePatient:
		return Scope{PatientID: actor.ID}
	}
	return Scope{}
}

// CanManageAccount reports whether the actor may list or manage a target
// account of the given role. Only superadmins may touch admin or superadmin
// accounts.
func CanManageAccount(actor entities.Role, target entities.Role) bool {
	if !Can(actor, ResourceUsers, "", ActionManageUsers) {
		return false
	}
	if target == entities.RoleAdmin || target == entities.RoleSuperadmin {
		return actor == entities.RoleSuperadmin
	}
	return true
}

// NavItem is a reachable section of the application for a role.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Navigation returns the navigation items reachable by the role.
func Navigation(role entities.Role) []NavItem {
	items := []NavItem{{Label: "Dashboard", Path: "/dashboard"}}

	if len(rolePermissions(role, ResourceAppointments)) > 0 {
		items = append(items, NavItem{Label: "Appointments", Path: "/appointments"})
	}
	if len(rolePermissions(role, ResourcePatients)) > 0 {
		items = append(items, NavItem{Label: "Patients", Path: "/patients"})
	}
	if len(rolePermissions(role, ResourceClinicalNotes)) > 0 {
		items = append(items, NavItem{Label: "Clinical Notes", Path: "/clinical"})
	}
	if rolePermissions(role, ResourceUsers).Has(ActionManageUsers) {
		items = append(items, NavItem{Label: "Staff", Path: "/users"})
	}
	return items
}
