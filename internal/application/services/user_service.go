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

// UserService gates staff account management behind the role policy. Only
// superadmins may see or touch admin and superadmin accounts.
type UserService struct {
	api practiceapi.UserAPI
}

// NewUserService creates a new user service
func NewUserService(api practiceapi.UserAPI) *UserService {
	return &UserService{api: api}
}

// List returns the staff accounts the actor may see. Admin and superadmin
// accounts are filtered out unless the actor is a superadmin; the actor's own
// account is always excluded from management listings.
func (s *UserService) List(ctx context.Context, actor entities.Actor, p query.ListParams) *practiceapi.UserPage {
	if !policy.Can(actor.Role, policy.ResourceUsers, "", policy.ActionManageUsers) {
		return &practiceapi.UserPage{Records: []entities.User{}, PageInfo: query.EmptyPage(p)}
	}

	page, err := s.api.ListUsers(ctx, actor.Token, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("user list fetch failed")
		return &practiceapi.UserPage{Records: []entities.User{}, PageInfo: query.EmptyPage(p)}
	}

	hidden := 0
	visible := page.Records[:0]
	for _, u := range page.Records {
		if u.ID == actor.ID || !policy.CanManageAccount(actor.Role, u.Role) {
			hidden++
			continue
		}
		visible = append(visible, u)
	}
	page.Records = visible

	// Keep the counts consistent with the records the actor actually sees.
	if hidden > 0 {
		page.TotalRecord -= hidden
		if page.TotalRecord < len(visible) {
			page.TotalRecord = len(visible)
		}
		if page.SetLimit > 0 {
			page.TotalPage = (page.TotalRecord + page.SetLimit - 1) / page.SetLimit
		}
	}
	return page
}

// Get fetches one staff account.
func (s *UserService) Get(ctx context.Context, actor entities.Actor, id string) (*entities.User, error) {
	if !policy.Can(actor.Role, policy.ResourceUsers, "", policy.ActionManageUsers) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}

	user, err := s.api.GetUser(ctx, actor.Token, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageAccount(actor.Role, user.Role) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return user, nil
}

// Create provisions a new staff account.
func (s *UserService) Create(ctx context.Context, actor entities.Actor, req practiceapi.CreateUserRequest) (*entities.User, error) {
	if !policy.Can(actor.Role, policy.ResourceUsers, "", policy.ActionCreate) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" ||
		req.Phone == "" || req.Password == "" || req.Role == "" {
		return nil, apperrors.NewValidationError("all staff fields are required")
	}
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role")
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, apperrors.NewValidationError("invalid phone number")
	}
	if !policy.CanManageAccount(actor.Role, req.Role) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}

	return s.api.CreateUser(ctx, actor.Token, req)
}

// UpdateInfo edits a staff account's contact details.
func (s *UserService) UpdateInfo(ctx context.Context, actor entities.Actor, id string, req practiceapi.UpdateUserRequest) (*entities.User, error) {
	if err := s.checkTarget(ctx, actor, id); err != nil {
		return nil, err
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return nil, apperrors.NewValidationError("invalid phone number")
	}
	return s.api.UpdateUser(ctx, actor.Token, id, req)
}

// UpdateRole changes a staff account's role. Promoting into admin or
// superadmin is itself a superadmin-only operation.
func (s *UserService) UpdateRole(ctx context.Context, actor entities.Actor, id string, role entities.Role) (*entities.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role")
	}
	if err := s.checkTarget(ctx, actor, id); err != nil {
		return nil, err
	}
	if !policy.CanManageAccount(actor.Role, role) {
		return nil, apperrors.NewForbiddenError("Insufficient permissions")
	}
	return s.api.UpdateUserRole(ctx, actor.Token, id, role)
}

// Reactivate re-enables a deactivated staff account.
func (s *UserService) Reactivate(ctx context.Context, actor entities.Actor, id string) (*entities.User, error) {
	if err := s.checkTarget(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.api.ReactivateUser(ctx, actor.Token, id)
}

// Delete removes a staff account. The UI treats deactivation as the normal
// path; delete exists for cleanup and is not control-flow critical.
func (s *UserService) Delete(ctx context.Context, actor entities.Actor, id string) error {
	if err := s.checkTarget(ctx, actor, id); err != nil {
		return err
	}
	return s.api.DeleteUser(ctx, actor.Token, id)
}

// checkTarget verifies the actor may manage the target account's role.
func (s *UserService) checkTarget(ctx context.Context, actor entities.Actor, id string) error {
	if !policy.Can(actor.Role, policy.ResourceUsers, "", policy.ActionManageUsers) {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}

	target, err := s.api.GetUser(ctx, actor.Token, id)
	if err != nil {
		return err
	}
	if !policy.CanManageAccount(actor.Role, target.Role) {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return nil
}
