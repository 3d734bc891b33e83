// Package practiceapi is the client for the remote practice REST API, the
// source of truth for every entity the gateway serves. Calls are
// single-attempt: a failed request surfaces to the caller, which decides
// between an empty sentinel (reads) and a tagged failure (writes).
package practiceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/query"
	"github.com/whitenlighten/practice-gateway/pkg/config"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

// UserFields is the default field projection for staff list queries.
var UserFields = []string{
	"id", "email", "firstName", "lastName", "phone", "role", "isActive", "lastLogin",
}

// PatientFields is the default field projection for patient list queries.
var PatientFields = []string{
	"id", "lastName", "firstName", "patientId", "email", "phone", "status",
	"registrationType", "gender",
}

// createUserTimeout bounds staff creation; the upstream provisioning call is
// the one slow endpoint the original system guarded with an abort timer.
const createUserTimeout = 10 * time.Second

// UserAPI covers the /users resource.
type UserAPI interface {
	ListUsers(ctx context.Context, token string, p query.ListParams) (*UserPage, error)
	GetUser(ctx context.Context, token, id string) (*entities.User, error)
	CreateUser(ctx context.Context, token string, req CreateUserRequest) (*entities.User, error)
	UpdateUser(ctx context.Context, token, id string, req UpdateUserRequest) (*entities.User, error)
	UpdateUserRole(ctx context.Context, token, id string, role entities.Role) (*entities.User, error)
	ReactivateUser(ctx context.Context, token, id string) (*entities.User, error)
	DeleteUser(ctx context.Context, token, id string) error
}

// PatientAPI covers the /patients resource.
type PatientAPI interface {
	ListPatients(ctx context.Context, token string, p query.ListParams) (*PatientPage, error)
	ListArchivedPatients(ctx context.Context, token string, p query.ListParams) (*PatientPage, error)
	GetPatient(ctx context.Context, token, id string) (*entities.Patient, error)
	GetPatientByPatientID(ctx context.Context, token, patientID string) (*entities.Patient, error)
	CreatePatient(ctx context.Context, token string, req CreatePatientRequest) (*entities.Patient, error)
	UpdatePatient(ctx context.Context, token, id string, req UpdatePatientRequest) (*entities.Patient, error)
	ApprovePatient(ctx context.Context, token, patientID string) error
	ArchivePatient(ctx context.Context, token, id string) error
	UnarchivePatient(ctx context.Context, token, id string) error
	PatientAppointments(ctx context.Context, token, id string, p query.ListParams) (*AppointmentPage, error)
}

// AppointmentAPI covers the /appointments resource.
type AppointmentAPI interface {
	ListAppointments(ctx context.Context, token string, p query.ListParams) (*AppointmentPage, error)
	GetAppointment(ctx context.Context, token, id string) (*entities.Appointment, error)
	CreateAppointment(ctx context.Context, token string, req CreateAppointmentRequest) (*entities.Appointment, error)
	UpdateAppointment(ctx context.Context, token, id string, req UpdateAppointmentRequest) (*entities.Appointment, error)
	ApproveAppointment(ctx context.Context, token, id string) (*entities.Appointment, error)
	CancelAppointment(ctx context.Context, token, id string) (*entities.Appointment, error)
	CompleteAppointment(ctx context.Context, token, id string) (*entities.Appointment, error)
	PublicBookAppointment(ctx context.Context, req PublicBookingRequest) (*entities.Appointment, error)
}

// ClinicalNoteAPI covers the clinical-notes resource.
type ClinicalNoteAPI interface {
	ListClinicalNotes(ctx context.Context, token string, p query.ListParams) (*ClinicalNotePage, error)
	GetClinicalNote(ctx context.Context, token, patientID, noteID string) (*entities.ClinicalNote, error)
	CreateClinicalNote(ctx context.Context, token, patientID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error)
	UpdateClinicalNote(ctx context.Context, token, patientID, noteID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error)
}

// AuditAPI covers the read-only audit log.
type AuditAPI interface {
	ListAuditRecords(ctx context.Context, token string, p query.ListParams) (*AuditPage, error)
}

// UserPage is a normalized page of staff accounts.
type UserPage struct {
	Records []entities.User `json:"records"`
	query.PageInfo
}

// PatientPage is a normalized page of patients.
type PatientPage struct {
	Records []entities.Patient `json:"records"`
	query.PageInfo
}

// AppointmentPage is a normalized page of appointments.
type AppointmentPage struct {
	Records []entities.Appointment `json:"records"`
	query.PageInfo
}

// ClinicalNotePage is a normalized page of clinical notes.
type ClinicalNotePage struct {
	Records []entities.ClinicalNote `json:"records"`
	query.PageInfo
}

// AuditPage is a normalized page of audit records.
type AuditPage struct {
	Records []entities.AuditRecord `json:"records"`
	query.PageInfo
}

// CreateUserRequest is the staff creation payload.
type CreateUserRequest struct {
	Email     string        `json:"email"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Phone     string        `json:"phone"`
	Password  string        `json:"password"`
	Role      entities.Role `json:"role"`
}

// UpdateUserRequest is the staff info update payload.
type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CreatePatientRequest is the patient registration payload.
type CreatePatientRequest struct {
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	Email            string        `json:"email,omitempty"`
	Phone            string        `json:"phone"`
	DateOfBirth      string        `json:"dateOfBirth,omitempty"`
	Age              *int          `json:"age,omitempty"`
	Gender           string        `json:"gender,omitempty"`
	Address          string        `json:"address,omitempty"`
	MaritalStatus    string        `json:"maritalStatus,omitempty"`
	BloodGroup       string        `json:"bloodGroup,omitempty"`
	Genotype         string        `json:"genotype,omitempty"`
	Allergies        string        `json:"allergies,omitempty"`
	RegisteredByID   string        `json:"registeredById,omitempty"`
	RegistrationType entities.Role `json:"registrationType,omitempty"`
}

// UpdatePatientRequest carries partial patient updates.
type UpdatePatientRequest struct {
	FirstName          string `json:"firstName,omitempty"`
	LastName           string `json:"lastName,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	DateOfBirth        string `json:"dateOfBirth,omitempty"`
	Gender             string `json:"gender,omitempty"`
	Address            string `json:"address,omitempty"`
	MaritalStatus      string `json:"maritalStatus,omitempty"`
	BloodGroup         string `json:"bloodGroup,omitempty"`
	Genotype           string `json:"genotype,omitempty"`
	Allergies          string `json:"allergies,omitempty"`
	ChronicConditions  string `json:"chronicConditions,omitempty"`
	CurrentMedications string `json:"currentMedications,omitempty"`
	EmergencyName      string `json:"emergencyName,omitempty"`
	EmergencyPhone     string `json:"emergencyPhone,omitempty"`
	EmergencyRelation  string `json:"emergencyRelation,omitempty"`
}

// CreateAppointmentRequest is the authenticated appointment creation payload.
// New appointments always start PENDING.
type CreateAppointmentRequest struct {
	PatientID     string `json:"patientId"`
	DoctorID      string `json:"doctorId,omitempty"`
	NurseID       string `json:"nurseId,omitempty"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Service       string `json:"service,omitempty"`
	Status        string `json:"status"`
}

// UpdateAppointmentRequest carries partial appointment updates, including
// doctor and nurse assignment while the appointment is pending.
type UpdateAppointmentRequest struct {
	DoctorID string `json:"doctorId,omitempty"`
	NurseID  string `json:"nurseId,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Date     string `json:"date,omitempty"`
	Status   string `json:"status,omitempty"`
}

// PublicBookingRequest is the unauthenticated booking form payload.
type PublicBookingRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Service   string `json:"service"`
	Reason    string `json:"reason,omitempty"`
	TimeSlot  string `json:"timeSlot"`
}

// envelope is the upstream wire format: {success, data, message}.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// listBody is the inner list payload: {data: [...], meta: {...}}.
type listBody struct {
	Data json.RawMessage `json:"data"`
	Meta query.Meta      `json:"meta"`
}

// Client talks to the practice API over HTTP.
type Client struct {
	rest *resty.Client
}

var _ UserAPI = (*Client)(nil)
var _ PatientAPI = (*Client)(nil)
var _ AppointmentAPI = (*Client)(nil)
var _ ClinicalNoteAPI = (*Client)(nil)
var _ AuditAPI = (*Client)(nil)

// NewClient creates a practice API client. Retries stay disabled: each page
// render issues at most one attempt per call.
func NewClient(cfg *config.UpstreamConfig) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{rest: rest}
}

// Ping checks upstream reachability; used only at startup.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.rest.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("practice api unreachable: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("practice api unhealthy: status %d", resp.StatusCode())
	}
	return nil
}

// --- Users ---

func (c *Client) ListUsers(ctx context.Context, token string, p query.ListParams) (*UserPage, error) {
	page := &UserPage{Records: []entities.User{}}
	info, err := c.list(ctx, token, "/users", p.WithDefaultFields(UserFields), &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

func (c *Client) GetUser(ctx context.Context, token, id string) (*entities.User, error) {
	user := &entities.User{}
	if err := c.getOne(ctx, token, "/users/"+id, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, req CreateUserRequest) (*entities.User, error) {
	ctx, cancel := context.WithTimeout(ctx, createUserTimeout)
	defer cancel()

	user := &entities.User{}
	if err := c.send(ctx, token, http.MethodPost, "/users", req, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, req UpdateUserRequest) (*entities.User, error) {
	user := &entities.User{}
	if err := c.send(ctx, token, http.MethodPatch, "/users/"+id, req, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, token, id string, role entities.Role) (*entities.User, error) {
	user := &entities.User{}
	payload := map[string]entities.Role{"role": role}
	if err := c.send(ctx, token, http.MethodPatch, "/users/"+id+"/role", payload, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) ReactivateUser(ctx context.Context, token, id string) (*entities.User, error) {
	user := &entities.User{}
	if err := c.send(ctx, token, http.MethodPatch, "/users/"+id+"/activate", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.send(ctx, token, http.MethodDelete, "/users/"+id, nil, nil)
}

// --- Patients ---

func (c *Client) ListPatients(ctx context.Context, token string, p query.ListParams) (*PatientPage, error) {
	page := &PatientPage{Records: []entities.Patient{}}
	info, err := c.list(ctx, token, "/patients", p.WithDefaultFields(PatientFields), &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

func (c *Client) ListArchivedPatients(ctx context.Context, token string, p query.ListParams) (*PatientPage, error) {
	page := &PatientPage{Records: []entities.Patient{}}
	info, err := c.list(ctx, token, "/patients/archived/all", p.WithDefaultFields(PatientFields), &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

func (c *Client) GetPatient(ctx context.Context, token, id string) (*entities.Patient, error) {
	patient := &entities.Patient{}
	if err := c.getOne(ctx, token, "/patients/"+id, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (c *Client) GetPatientByPatientID(ctx context.Context, token, patientID string) (*entities.Patient, error) {
	patient := &entities.Patient{}
	if err := c.getOne(ctx, token, "/patients/one/"+patientID, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (c *Client) CreatePatient(ctx context.Context, token string, req CreatePatientRequest) (*entities.Patient, error) {
	patient := &entities.Patient{}
	if err := c.send(ctx, token, http.MethodPost, "/patients", req, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (c *Client) UpdatePatient(ctx context.Context, token, id string, req UpdatePatientRequest) (*entities.Patient, error) {
	patient := &entities.Patient{}
	if err := c.send(ctx, token, http.MethodPatch, "/patients/"+id, req, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (c *Client) ApprovePatient(ctx context.Context, token, patientID string) error {
	return c.send(ctx, token, http.MethodPost, "/patients/"+patientID+"/approve", nil, nil)
}

func (c *Client) ArchivePatient(ctx context.Context, token, id string) error {
	return c.send(ctx, token, http.MethodDelete, "/patients/"+id, nil, nil)
}

func (c *Client) UnarchivePatient(ctx context.Context, token, id string) error {
	return c.send(ctx, token, http.MethodPatch, "/patients/"+id+"/unarchive", nil, nil)
}

func (c *Client) PatientAppointments(ctx context.Context, token, id string, p query.ListParams) (*AppointmentPage, error) {
	page := &AppointmentPage{Records: []entities.Appointment{}}
	info, err := c.list(ctx, token, "/patients/"+id+"/appointments", p, &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

// --- Appointments ---

func (c *Client) ListAppointments(ctx context.Context, token string, p query.ListParams) (*AppointmentPage, error) {
	page := &AppointmentPage{Records: []entities.Appointment{}}
	info, err := c.list(ctx, token, "/appointments", p, &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

func (c *Client) GetAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	if err := c.getOne(ctx, token, "/appointments/"+id, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (c *Client) CreateAppointment(ctx context.Context, token string, req CreateAppointmentRequest) (*entities.Appointment, error) {
	req.Status = string(entities.AppointmentStatusPending)
	appointment := &entities.Appointment{}
	if err := c.send(ctx, token, http.MethodPost, "/appointments", req, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, token, id string, req UpdateAppointmentRequest) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	if err := c.send(ctx, token, http.MethodPatch, "/appointments/"+id, req, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (c *Client) ApproveAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	return c.patchAppointment(ctx, token, "/appointments/"+id+"/approve")
}

func (c *Client) CancelAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	return c.patchAppointment(ctx, token, "/appointments/"+id+"/cancel")
}

func (c *Client) CompleteAppointment(ctx context.Context, token, id string) (*entities.Appointment, error) {
	return c.patchAppointment(ctx, token, "/appointments/"+id+"/complete")
}

func (c *Client) PublicBookAppointment(ctx context.Context, req PublicBookingRequest) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	if err := c.send(ctx, "", http.MethodPost, "/appointments/public-book", req, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (c *Client) patchAppointment(ctx context.Context, token, path string) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	if err := c.send(ctx, token, http.MethodPatch, path, nil, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// --- Clinical notes ---

func (c *Client) ListClinicalNotes(ctx context.Context, token string, p query.ListParams) (*ClinicalNotePage, error) {
	page := &ClinicalNotePage{Records: []entities.ClinicalNote{}}
	info, err := c.list(ctx, token, "/clinical-notes", p, &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

// GetClinicalNote fetches one note. The upstream one-note endpoint answers
// with a single-element list envelope.
func (c *Client) GetClinicalNote(ctx context.Context, token, patientID, noteID string) (*entities.ClinicalNote, error) {
	var notes []entities.ClinicalNote
	p := query.ListParams{Page: 1, Limit: 1}
	values := p.Values()
	values.Set("noteId", noteID)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetQueryParamsFromValues(values).
		Get("/patients/" + patientID + "/clinical-notes")
	if err != nil {
		return nil, apperrors.NewExternalError("practice api request failed", err)
	}

	if _, err := decodeList(resp, &notes); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, apperrors.NewNotFoundError("clinical note not found")
	}
	return &notes[0], nil
}

func (c *Client) CreateClinicalNote(ctx context.Context, token, patientID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error) {
	created := &entities.ClinicalNote{}
	if err := c.send(ctx, token, http.MethodPost, "/patients/"+patientID+"/clinical-notes", note, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) UpdateClinicalNote(ctx context.Context, token, patientID, noteID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error) {
	updated := &entities.ClinicalNote{}
	path := "/patients/" + patientID + "/clinical-notes/" + noteID
	if err := c.send(ctx, token, http.MethodPatch, path, note, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// --- Audit ---

func (c *Client) ListAuditRecords(ctx context.Context, token string, p query.ListParams) (*AuditPage, error) {
	page := &AuditPage{Records: []entities.AuditRecord{}}
	info, err := c.list(ctx, token, "/audit", p, &page.Records)
	if err != nil {
		return nil, err
	}
	page.PageInfo = info
	return page, nil
}

// --- plumbing ---

// list issues a GET with normalized list params and unwraps the pagination
// envelope into records + PageInfo.
func (c *Client) list(ctx context.Context, token, path string, p query.ListParams, records any) (query.PageInfo, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetQueryParamsFromValues(p.Values()).
		Get(path)
	if err != nil {
		return query.PageInfo{}, apperrors.NewExternalError("practice api request failed", err)
	}

	return decodeList(resp, records)
}

// getOne issues a GET for a single record and unwraps the object envelope.
func (c *Client) getOne(ctx context.Context, token, path string, out any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Get(path)
	if err != nil {
		return apperrors.NewExternalError("practice api request failed", err)
	}

	return decodeObject(resp, out)
}

// send issues a mutating request and unwraps the object envelope when the
// caller expects a body back.
func (c *Client) send(ctx context.Context, token, method, path string, body, out any) error {
	req := c.rest.R().SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return apperrors.NewExternalError("practice api request failed", err)
	}

	if out == nil {
		if resp.IsError() {
			return statusError(resp)
		}
		return nil
	}
	return decodeObject(resp, out)
}

func decodeList(resp *resty.Response, records any) (query.PageInfo, error) {
	if resp.IsError() {
		return query.PageInfo{}, statusError(resp)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return query.PageInfo{}, apperrors.NewExternalError("practice api returned malformed envelope", err)
	}
	if !env.Success {
		return query.PageInfo{}, apperrors.NewExternalError(upstreamMessage(env.Message), nil)
	}

	var body listBody
	if err := json.Unmarshal(env.Data, &body); err != nil {
		return query.PageInfo{}, apperrors.NewExternalError("practice api returned malformed list payload", err)
	}
	if len(body.Data) > 0 {
		if err := json.Unmarshal(body.Data, records); err != nil {
			return query.PageInfo{}, apperrors.NewExternalError("practice api returned malformed records", err)
		}
	}

	return query.Normalize(body.Meta), nil
}

func decodeObject(resp *resty.Response, out any) error {
	if resp.IsError() {
		return statusError(resp)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return apperrors.NewExternalError("practice api returned malformed envelope", err)
	}
	if !env.Success {
		return apperrors.NewExternalError(upstreamMessage(env.Message), nil)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewExternalError("practice api returned malformed record", err)
	}
	return nil
}

func statusError(resp *resty.Response) error {
	message := ""
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil {
		message = env.Message
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return apperrors.NewValidationError(upstreamMessage(message))
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError("authentication required")
	case http.StatusForbidden:
		return apperrors.NewForbiddenError("Insufficient permissions")
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(upstreamMessage(message))
	case http.StatusConflict:
		return apperrors.NewConflictError(upstreamMessage(message))
	default:
		return apperrors.NewExternalError(
			fmt.Sprintf("practice api returned status %d", resp.StatusCode()), nil)
	}
}

func upstreamMessage(message string) string {
	if message == "" {
		return "practice api request failed"
	}
	return message
}
