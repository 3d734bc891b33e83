package entities

import (
	"time"
)

// NoteVitals are the vital signs captured with the objective section.
type NoteVitals struct {
	BloodPressure float64 `json:"bloodPressure"`
	Pulse         float64 `json:"pulse"`
	Temperature   float64 `json:"temperature"`
}

// ClinicalNote is a SOAP-format clinical record. Fields the practice API has
// not promoted to top-level columns travel in ExtendedData.
type ClinicalNote struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`

	// Subjective
	ChiefComplaint            string `json:"chiefComplaint,omitempty"`
	PresentComplaint          string `json:"presentComplaint,omitempty"`
	HistoryOfPresentComplaint string `json:"historyOfPresentComplaint,omitempty"`
	DentalHistory             string `json:"dentalHistory,omitempty"`
	MedicalHistory            string `json:"medicalHistory,omitempty"`

	// Objective
	EOE           string      `json:"eoe,omitempty"`
	IOE           string      `json:"ioe,omitempty"`
	Observations  string      `json:"observations,omitempty"`
	Investigation string      `json:"investigation,omitempty"`
	Vitals        *NoteVitals `json:"vitals,omitempty"`

	// Assessment
	Diagnosis   string   `json:"diagnosis,omitempty"`
	Impression  []string `json:"impression,omitempty"`
	DoctorNotes string   `json:"doctorNotes,omitempty"`

	// Plan
	TreatmentDone         string   `json:"treatmentDone,omitempty"`
	TreatmentPlan         string   `json:"treatmentPlan,omitempty"`
	RecommendedTreatments []string `json:"recommendedTreatments,omitempty"`
	Medications           string   `json:"medications,omitempty"`
	DosageInstructions    string   `json:"dosageInstructions,omitempty"`
	EstimatedDuration     string   `json:"estimatedDuration,omitempty"`
	RequiresFollowUp      bool     `json:"requiresFollowUp,omitempty"`
	FollowUpDate          string   `json:"followUpDate,omitempty"`
	FollowUpInstructions  string   `json:"followUpInstructions,omitempty"`

	// Meta
	DentistName      string         `json:"dentistName,omitempty"`
	DentistSignature string         `json:"dentistSignature,omitempty"`
	Date             string         `json:"date,omitempty"`
	ExtendedData     map[string]any `json:"extendedData,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
