package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/domain/policy"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

// Renderer converts an HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// PDFService produces the patient-details PDF export.
type PDFService struct {
	api      practiceapi.PatientAPI
	renderer Renderer
	tmpl     *template.Template
}

// NewPDFService creates a new PDF service
func NewPDFService(api practiceapi.PatientAPI, renderer Renderer) *PDFService {
	return &PDFService{
		api:      api,
		renderer: renderer,
		tmpl:     template.Must(template.New("patient-details").Parse(patientDetailsTemplate)),
	}
}

type patientDetailsPage struct {
	Patient     *entities.Patient
	DateOfBirth string
	GeneratedAt string
}

// PatientDetails renders the patient record as a PDF. It returns the document
// bytes and the download filename.
func (s *PDFService) PatientDetails(ctx context.Context, actor entities.Actor, patientID string) ([]byte, string, error) {
	if !policy.Can(actor.Role, policy.ResourcePatients, "", policy.ActionView) {
		return nil, "", apperrors.NewForbiddenError("Insufficient permissions")
	}

	patient, err := s.api.GetPatientByPatientID(ctx, actor.Token, patientID)
	if err != nil {
		return nil, "", err
	}

	page := patientDetailsPage{
		Patient:     patient,
		GeneratedAt: time.Now().UTC().Format("02 Jan 2006 15:04 MST"),
	}
	if patient.DateOfBirth != nil {
		page.DateOfBirth = patient.DateOfBirth.Format("02 Jan 2006")
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, page); err != nil {
		return nil, "", apperrors.NewInternalError("failed to render patient details", err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, buf.String())
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-PATIENT-DETAILS.pdf", patient.PatientID)
	return pdf, filename, nil
}

const patientDetailsTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 40px; }
  h1 { font-size: 20px; border-bottom: 2px solid #0f766e; padding-bottom: 8px; }
  h2 { font-size: 14px; color: #0f766e; margin-top: 28px; text-transform: uppercase; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  td { padding: 6px 8px; border-bottom: 1px solid #e5e7eb; font-size: 12px; vertical-align: top; }
  td.label { width: 35%; color: #6b7280; }
  .badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 11px; background: #ccfbf1; color: #0f766e; }
  .footer { margin-top: 40px; font-size: 10px; color: #9ca3af; }
</style>
</head>
<body>
  <h1>Patient Details <span class="badge">{{.Patient.Status}}</span></h1>

  <h2>Personal Information</h2>
  <table>
    <tr><td class="label">Patient Number</td><td>{{.Patient.PatientID}}</td></tr>
    <tr><td class="label">Full Name</td><td>{{.Patient.FullName}}</td></tr>
    <tr><td class="label">Gender</td><td>{{.Patient.Gender}}</td></tr>
    <tr><td class="label">Date of Birth</td><td>{{.DateOfBirth}}</td></tr>
    <tr><td class="label">Marital Status</td><td>{{.Patient.MaritalStatus}}</td></tr>
    <tr><td class="label">Occupation</td><td>{{.Patient.Occupation}}</td></tr>
  </table>

  <h2>Contact</h2>
  <table>
    <tr><td class="label">Phone</td><td>{{.Patient.Phone}}</td></tr>
    <tr><td class="label">Alternate Phone</td><td>{{.Patient.AlternatePhone}}</td></tr>
    <tr><td class="label">Email</td><td>{{.Patient.Email}}</td></tr>
    <tr><td class="label">Address</td><td>{{.Patient.Address}}</td></tr>
    <tr><td class="label">State</td><td>{{.Patient.State}}</td></tr>
    <tr><td class="label">Country</td><td>{{.Patient.Country}}</td></tr>
  </table>

  <h2>Emergency Contact</h2>
  <table>
    <tr><td class="label">Name</td><td>{{.Patient.EmergencyName}}</td></tr>
    <tr><td class="label">Phone</td><td>{{.Patient.EmergencyPhone}}</td></tr>
    <tr><td class="label">Relationship</td><td>{{.Patient.EmergencyRelation}}</td></tr>
  </table>

  <h2>Medical Information</h2>
  <table>
    <tr><td class="label">Blood Group</td><td>{{.Patient.BloodGroup}}</td></tr>
    <tr><td class="label">Genotype</td><td>{{.Patient.Genotype}}</td></tr>
    <tr><td class="label">Allergies</td><td>{{.Patient.Allergies}}</td></tr>
    <tr><td class="label">Chronic Conditions</td><td>{{.Patient.ChronicConditions}}</td></tr>
    <tr><td class="label">Past Medical History</td><td>{{.Patient.PastMedicalHistory}}</td></tr>
    <tr><td class="label">Past Surgical History</td><td>{{.Patient.PastSurgicalHistory}}</td></tr>
    <tr><td class="label">Current Medications</td><td>{{.Patient.CurrentMedications}}</td></tr>
    <tr><td class="label">Family History</td><td>{{.Patient.FamilyHistory}}</td></tr>
  </table>

  <h2>Insurance</h2>
  <table>
    <tr><td class="label">Provider</td><td>{{.Patient.InsuranceProvider}}</td></tr>
    <tr><td class="label">Number</td><td>{{.Patient.InsuranceNumber}}</td></tr>
    <tr><td class="label">Payment Method</td><td>{{.Patient.PaymentMethod}}</td></tr>
  </table>

  <div class="footer">Generated {{.GeneratedAt}}</div>
</body>
</html>`
