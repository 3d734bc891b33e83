package entities

import (
	"time"
)

// PatientStatus represents the lifecycle status of a patient record.
type PatientStatus string

const (
	PatientStatusPending  PatientStatus = "PENDING"
	PatientStatusActive   PatientStatus = "ACTIVE"
	PatientStatusArchived PatientStatus = "ARCHIVED"
)

// Gender values accepted by the practice API.
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
	GenderOther  Gender = "OTHER"
)

// BloodGroup values accepted by the practice API.
var BloodGroups = []string{
	"A_NEG", "A_POS", "B_POS", "B_NEG", "AB_POS", "AB_NEG", "O_NEG", "O_POS",
}

// Genotypes accepted by the practice API.
var Genotypes = []string{"AA", "AC", "AS", "SC", "SS"}

// MaritalStatuses accepted by the practice API.
var MaritalStatuses = []string{"DIVORCED", "MARRIED", "SINGLE", "WIDOWED"}

// Patient mirrors the patient record shape served by the practice API. The
// generated patientId is the patient-facing identifier, distinct from the
// internal ID.
type Patient struct {
	ID                  string        `json:"id"`
	PatientID           string        `json:"patientId"`
	FirstName           string        `json:"firstName"`
	LastName            string        `json:"lastName"`
	MiddleName          string        `json:"middleName,omitempty"`
	Gender              Gender        `json:"gender"`
	DateOfBirth         *time.Time    `json:"dateOfBirth,omitempty"`
	Age                 *int          `json:"age,omitempty"`
	MaritalStatus       string        `json:"maritalStatus,omitempty"`
	Occupation          string        `json:"occupation,omitempty"`
	Religion            string        `json:"religion,omitempty"`
	BloodGroup          string        `json:"bloodGroup,omitempty"`
	Genotype            string        `json:"genotype,omitempty"`
	Phone               string        `json:"phone"`
	AlternatePhone      string        `json:"alternatePhone,omitempty"`
	Email               string        `json:"email,omitempty"`
	Address             string        `json:"address,omitempty"`
	State               string        `json:"state,omitempty"`
	LGA                 string        `json:"lga,omitempty"`
	Country             string        `json:"country,omitempty"`
	EmergencyName       string        `json:"emergencyName,omitempty"`
	EmergencyPhone      string        `json:"emergencyPhone,omitempty"`
	EmergencyRelation   string        `json:"emergencyRelation,omitempty"`
	Allergies           string        `json:"allergies,omitempty"`
	ChronicConditions   string        `json:"chronicConditions,omitempty"`
	PastMedicalHistory  string        `json:"pastMedicalHistory,omitempty"`
	PastSurgicalHistory string        `json:"pastSurgicalHistory,omitempty"`
	CurrentMedications  string        `json:"currentMedications,omitempty"`
	ImmunizationRecords string        `json:"immunizationRecords,omitempty"`
	FamilyHistory       string        `json:"familyHistory,omitempty"`
	RegistrationType    Role          `json:"registrationType,omitempty"`
	RegisteredByID      string        `json:"registeredById,omitempty"`
	RegisteredBy        *User         `json:"registeredBy,omitempty"`
	InsuranceProvider   string        `json:"insuranceProvider,omitempty"`
	InsuranceNumber     string        `json:"insuranceNumber,omitempty"`
	PaymentMethod       string        `json:"paymentMethod,omitempty"`
	PrimaryDoctorID     string        `json:"primaryDoctorId,omitempty"`
	Status              PatientStatus `json:"status"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
	ApprovedAt          *time.Time    `json:"approvedAt,omitempty"`
	UserID              string        `json:"userId,omitempty"`
}

// FullName returns the patient's display name.
func (p *Patient) FullName() string {
	if p.MiddleName != "" {
		return p.FirstName + " " + p.MiddleName + " " + p.LastName
	}
	return p.FirstName + " " + p.LastName
}
