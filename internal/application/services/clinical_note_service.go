package services

import (
	"context"
	"time"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/domain/policy"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/observability"
	"github.com/whitenlighten/practice-gateway/internal/query"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

// ClinicalNoteService gates SOAP note operations behind the role policy.
// Notes are authored and edited by doctors only; patients may read their own.
type ClinicalNoteService struct {
	api      practiceapi.ClinicalNoteAPI
	patients practiceapi.PatientAPI
}

// NewClinicalNoteService creates a new clinical note service
func NewClinicalNoteService(api practiceapi.ClinicalNoteAPI, patients practiceapi.PatientAPI) *ClinicalNoteService {
	return &ClinicalNoteService{api: api, patients: patients}
}

// List returns the actor's visible page of clinical notes. Patients are
// scoped to their own notes; a failed fetch yields the empty sentinel page.
func (s *ClinicalNoteService) List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.ClinicalNotePage {
	if !policy.Can(actor.Role, policy.ResourceClinicalNotes, "", policy.ActionView) {
		return emptyNotePage(p)
	}

	if scope := policy.ListScope(actor); scope.PatientID != "" {
		p.PatientID = scope.PatientID
	}

	page, err := s.api.ListClinicalNotes(ctx, actor.Token, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("clinical note list fetch failed")
		return emptyNotePage(p)
	}
	return page
}

// Get fetches one note for a patient.
func (s *ClinicalNoteService) Get(ctx context.Context, actor entities.Actor, patientID, noteID string) (*entities.ClinicalNote, error) {
	if !policy.Can(actor.Role, policy.ResourceClinicalNotes, "", policy.ActionView) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if err := s.checkOwnership(ctx, actor, patientID); err != nil {
		return nil, err
	}
	return s.api.GetClinicalNote(ctx, actor.Token, patientID, noteID)
}

// checkOwnership enforces the self-scoping rule on reads: a patient may only
// reach notes on their own record.
func (s *ClinicalNoteService) checkOwnership(ctx context.Context, actor entities.Actor, patientID string) error {
	if actor.Role != entities.RolePatient {
		return nil
	}
	if patientID == actor.ID {
		return nil
	}
	patient, err := s.patients.GetPatient(ctx, actor.Token, patientID)
	if err != nil {
		return err
	}
	if patient.UserID != actor.ID {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return nil
}

// Create authors a new note, stamping the signing dentist from the actor.
func (s *ClinicalNoteService) Create(ctx context.Context, actor entities.Actor, patientID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error) {
	if !policy.Can(actor.Role, policy.ResourceClinicalNotes, "", policy.ActionCreate) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if patientID == "" {
		return nil, apperrors.NewValidationError("patientId is required")
	}

	note.PatientID = patientID
	note.DentistName = actor.FullName()
	note.DentistSignature = actor.Initials()
	if note.Date == "" {
		note.Date = time.Now().UTC().Format("2006-01-02")
	}
	if note.ExtendedData == nil {
		note.ExtendedData = map[string]any{}
	}

	return s.api.CreateClinicalNote(ctx, actor.Token, patientID, note)
}

// Update edits an existing note.
func (s *ClinicalNoteService) Update(ctx context.Context, actor entities.Actor, patientID, noteID string, note *entities.ClinicalNote) (*entities.ClinicalNote, error) {
	if !policy.Can(actor.Role, policy.ResourceClinicalNotes, "", policy.ActionEdit) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.UpdateClinicalNote(ctx, actor.Token, patientID, noteID, note)
}

func emptyNotePage(p query.ListParams) *practiceapi.ClinicalNotePage {
	return &practiceapi.ClinicalNotePage{Records: []entities.ClinicalNote{}, PageInfo: query.EmptyPage(p)}
}
