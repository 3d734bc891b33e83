package services

import (
	"context"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/domain/policy"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/observability"
	"github.com/whitenlighten/practice-gateway/internal/query"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

// PatientService gates patient record operations behind the role policy and
// passes them through to the practice API.
type PatientService struct {
	api practiceapi.PatientAPI
}

// NewPatientService creates a new patient service
func NewPatientService(api practiceapi.PatientAPI) *PatientService {
	return &PatientService{api: api}
}

// List returns the actor's visible page of patients, injecting the doctor
// scope where required. Failed fetches yield the empty sentinel page.
func (s *PatientService) List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.PatientPage {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionView) {
		return emptyPatientPage(p)
	}

	if scope := policy.ListScope(actor); scope.DoctorID != "" {
		p.DoctorID = scope.DoctorID
	}

	page, err := s.api.ListPatients(ctx, actor.Token, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("patient list fetch failed")
		return emptyPatientPage(p)
	}
	return page
}

// ListArchived returns archived patients; only admins manage the archive.
func (s *PatientService) ListArchived(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.PatientPage {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionUnarchive) {
		return emptyPatientPage(p)
	}

	page, err := s.api.ListArchivedPatients(ctx, actor.Token, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("archived patient list fetch failed")
		return emptyPatientPage(p)
	}
	return page
}

// Get fetches one patient by internal id.
func (s *PatientService) Get(ctx context.Context, actor entities.Actor, id string) (*entities.Patient, error) {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionView) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.GetPatient(ctx, actor.Token, id)
}

// GetByPatientID fetches one patient by the patient-facing identifier.
func (s *PatientService) GetByPatientID(ctx context.Context, actor entities.Actor, patientID string) (*entities.Patient, error) {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionView) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.GetPatientByPatientID(ctx, actor.Token, patientID)
}

// Create registers a new patient; the record starts PENDING until approved.
func (s *PatientService) Create(ctx context.Context, actor entities.Actor, req practiceapi.CreatePatientRequest) (*entities.Patient, error) {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionCreate) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		return nil, apperrors.NewValidationError("firstName, lastName and phone are required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, apperrors.NewValidationError("invalid phone number")
	}

	// Stamp the registering actor and channel.
	if req.RegisteredByID == "" {
		req.RegisteredByID = actor.ID
	}
	if req.RegistrationType == "" {
		req.RegistrationType = actor.Role
	}

	return s.api.CreatePatient(ctx, actor.Token, req)
}

// Update edits patient demographics and medical fields.
func (s *PatientService) Update(ctx context.Context, actor entities.Actor, id string, req practiceapi.UpdatePatientRequest) (*entities.Patient, error) {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionEdit) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return nil, apperrors.NewValidationError("invalid phone number")
	}
	return s.api.UpdatePatient(ctx, actor.Token, id, req)
}

// Approve admits a pending patient (status PENDING -> ACTIVE).
func (s *PatientService) Approve(ctx context.Context, actor entities.Actor, patientID string) error {
	patient, err := s.api.GetPatientByPatientID(ctx, actor.Token, patientID)
	if err != nil {
		return err
	}
	if !policy.Can(actor.Role, policy.ResourcePatients, string(patient.Status), policy.ActionApprove) {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.ApprovePatient(ctx, actor.Token, patientID)
}

// Archive moves an active patient to the archive. Records are never hard
// deleted.
func (s *PatientService) Archive(ctx context.Context, actor entities.Actor, id string) error {
	patient, err := s.api.GetPatient(ctx, actor.Token, id)
	if err != nil {
		return err
	}
	if !policy.Can(actor.Role, policy.ResourcePatients, string(patient.Status), policy.ActionArchive) {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.ArchivePatient(ctx, actor.Token, id)
}

// Unarchive restores an archived patient.
func (s *PatientService) Unarchive(ctx context.Context, actor entities.Actor, id string) error {
	patient, err := s.api.GetPatient(ctx, actor.Token, id)
	if err != nil {
		return err
	}
	if !policy.Can(actor.Role, policy.ResourcePatients, string(patient.Status), policy.ActionUnarchive) {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.UnarchivePatient(ctx, actor.Token, id)
}

// AppointmentHistory lists a patient's appointments.
func (s *PatientService) AppointmentHistory(ctx context.Context, actor entities.Actor, id string, p query.ListParams) *practiceapi.AppointmentPage {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionView) {
		return &practiceapi.AppointmentPage{Records: []entities.Appointment{}, PageInfo: query.EmptyPage(p)}
	}

	page, err := s.api.PatientAppointments(ctx, actor.Token, id, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("patient appointment history fetch failed")
		return &practiceapi.AppointmentPage{Records: []entities.Appointment{}, PageInfo: query.EmptyPage(p)}
	}
	return page
}

// AllowedActions reports the actions the actor may take on the patient in its
// current status.
func (s *PatientService) AllowedActions(actor entities.Actor, patient *entities.Patient) []string {
	return policy.Permitted(actor.Role, policy.ResourcePatients, string(patient.Status)).List()
}

func emptyPatientPage(p query.ListParams) *practiceapi.PatientPage {
	return &practiceapi.PatientPage{Records: []entities.Patient{}, PageInfo: query.EmptyPage(p)}
}
