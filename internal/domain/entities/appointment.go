package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow      AppointmentStatus = "NO_SHOW"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
)

// AppointmentStatuses lists every status the practice API may return.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
	AppointmentStatusRescheduled,
}

// Appointment represents a scheduled appointment as served by the practice
// API. Doctor and nurse references are nullable; both are assignable while
// the appointment is still pending.
type Appointment struct {
	ID            string            `json:"id"`
	PatientID     string            `json:"patientId"`
	DoctorID      string            `json:"doctorId,omitempty"`
	NurseID       string            `json:"nurseId,omitempty"`
	Date          *time.Time        `json:"date,omitempty"`
	TimeSlot      string            `json:"timeSlot"`
	Status        AppointmentStatus `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	Service       string            `json:"service,omitempty"`
	MaritalStatus string            `json:"maritalStatus,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Patient       *Patient          `json:"patient,omitempty"`
	Doctor        *User             `json:"doctor,omitempty"`
}
