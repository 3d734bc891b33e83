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

// AppointmentService gates appointment operations behind the role policy and
// passes them through to the practice API.
type AppointmentService struct {
	api practiceapi.AppointmentAPI
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(api practiceapi.AppointmentAPI) *AppointmentService {
	return &AppointmentService{api: api}
}

// List returns the actor's visible page of appointments. Doctors and patients
// are scoped to their own records; a failed fetch yields the empty sentinel
// page so list views render empty instead of erroring.
func (s *AppointmentService) List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.AppointmentPage {
	if !policy.Can(actor.Role, policy.ResourceAppointments, "", policy.ActionView) {
		return &practiceapi.AppointmentPage{Records: []entities.Appointment{}, PageInfo: query.EmptyPage(p)}
	}

	scope := policy.ListScope(actor)
	if scope.DoctorID != "" {
		p.DoctorID = scope.DoctorID
	}
	if scope.PatientID != "" {
		p.PatientID = scope.PatientID
	}

	page, err := s.api.ListAppointments(ctx, actor.Token, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("appointment list fetch failed")
		return &practiceapi.AppointmentPage{Records: []entities.Appointment{}, PageInfo: query.EmptyPage(p)}
	}
	return page
}

// Get fetches one appointment, enforcing the actor's scope.
func (s *AppointmentService) Get(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error) {
	if !policy.Can(actor.Role, policy.ResourceAppointments, "", policy.ActionView) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}

	appointment, err := s.api.GetAppointment(ctx, actor.Token, id)
	if err != nil {
		return nil, err
	}
	if !s.inScope(actor, appointment) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return appointment, nil
}

// Create books a new appointment on behalf of a patient. New appointments
// always start PENDING.
func (s *AppointmentService) Create(ctx context.Context, actor entities.Actor, req practiceapi.CreateAppointmentRequest) (*entities.Appointment, error) {
	if !policy.Can(actor.Role, policy.ResourceAppointments, "", policy.ActionCreate) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if req.PatientID == "" || req.Date == "" || req.TimeSlot == "" {
		return nil, apperrors.NewValidationError("patientId, date and timeSlot are required")
	}
	return s.api.CreateAppointment(ctx, actor.Token, req)
}

// Approve confirms a pending appointment.
func (s *AppointmentService) Approve(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error) {
	return s.transition(ctx, actor, id, policy.ActionApprove, s.api.ApproveAppointment)
}

// Cancel cancels a pending or confirmed appointment.
func (s *AppointmentService) Cancel(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error) {
	return s.transition(ctx, actor, id, policy.ActionCancel, s.api.CancelAppointment)
}

// Complete marks a confirmed appointment as completed.
func (s *AppointmentService) Complete(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error) {
	return s.transition(ctx, actor, id, policy.ActionComplete, s.api.CompleteAppointment)
}

// Assign attaches a doctor and/or nurse to a pending appointment.
func (s *AppointmentService) Assign(ctx context.Context, actor entities.Actor, id, doctorID, nurseID string) (*entities.Appointment, error) {
	if doctorID == "" && nurseID == "" {
		return nil, apperrors.NewValidationError("doctorId or nurseId is required")
	}

	appointment, err := s.api.GetAppointment(ctx, actor.Token, id)
	if err != nil {
		return nil, err
	}

	state := string(appointment.Status)
	if doctorID != "" && !policy.Can(actor.Role, policy.ResourceAppointments, state, policy.ActionAssignDoctor) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if nurseID != "" && !policy.Can(actor.Role, policy.ResourceAppointments, state, policy.ActionAssignNurse) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}

	return s.api.UpdateAppointment(ctx, actor.Token, id, practiceapi.UpdateAppointmentRequest{
		DoctorID: doctorID,
		NurseID:  nurseID,
	})
}

// PublicBook submits the unauthenticated booking-request form.
func (s *AppointmentService) PublicBook(ctx context.Context, req practiceapi.PublicBookingRequest) (*entities.Appointment, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}
	return s.api.PublicBookAppointment(ctx, req)
}

// AllowedActions reports which actions the actor may take on the appointment
// in its current status, so views and execution share one policy source.
func (s *AppointmentService) AllowedActions(actor entities.Actor, appointment *entities.Appointment) []string {
	if !s.inScope(actor, appointment) {
		return []string{}
	}
	return policy.Permitted(actor.Role, policy.ResourceAppointments, string(appointment.Status)).List()
}

func (s *AppointmentService) transition(
	ctx context.Context,
	actor entities.Actor,
	id string,
	action policy.Action,
	call func(context.Context, string, string) (*entities.Appointment, error),
) (*entities.Appointment, error) {
	appointment, err := s.api.GetAppointment(ctx, actor.Token, id)
	if err != nil {
		return nil, err
	}
	if !s.inScope(actor, appointment) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if !policy.Can(actor.Role, policy.ResourceAppointments, string(appointment.Status), action) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return call(ctx, actor.Token, id)
}

// inScope checks the self-scoping rules: a doctor may only act on
// appointments assigned to them, a patient only on their own.
func (s *AppointmentService) inScope(actor entities.Actor, appointment *entities.Appointment) bool {
	switch actor.Role {
	case entities.RoleDoctor:
		return appointment.DoctorID == "" || appointment.DoctorID == actor.ID
	case entities.RolePatient:
		return appointment.PatientID == actor.ID ||
			(appointment.Patient != nil && appointment.Patient.UserID == actor.ID)
	}
	return true
}

func validateBookingRequest(req practiceapi.PublicBookingRequest) error {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Phone == "" || req.Date == "" || req.TimeSlot == "" || req.Service == "" {
		return apperrors.NewValidationError("all booking fields are required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return apperrors.NewValidationError("invalid phone number")
	}
	return nil
}
