package entities

import (
	"time"
)

// Role is the closed set of staff and patient roles known to the practice.
type Role string

const (
	RolePatient    Role = "PATIENT"
	RoleFrontdesk  Role = "FRONTDESK"
	RoleNurse      Role = "NURSE"
	RoleDoctor     Role = "DOCTOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperadmin Role = "SUPERADMIN"
)

// Roles lists every valid role.
var Roles = []Role{
	RolePatient,
	RoleFrontdesk,
	RoleNurse,
	RoleDoctor,
	RoleAdmin,
	RoleSuperadmin,
}

// Valid reports whether the role is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleFrontdesk, RoleNurse, RoleDoctor, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User represents a staff or patient account as returned by the practice API.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	StaffCode      string     `json:"staffCode,omitempty"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"role"`
	Specialization string     `json:"specialization,omitempty"`
	IsActive       bool       `json:"isActive"`
	EmailVerified  bool       `json:"emailVerified,omitempty"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor is the authenticated identity attached to a request. The raw bearer
// token is forwarded on every upstream call made on the actor's behalf.
type Actor struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	Token     string `json:"-"`
}

// FullName returns the actor's display name.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Initials returns the actor's initials, used as a clinical note signature.
func (a Actor) Initials() string {
	var out string
	if a.FirstName != "" {
		out += string([]rune(a.FirstName)[0])
	}
	if a.LastName != "" {
		out += string([]rune(a.LastName)[0])
	}
	return out
}
