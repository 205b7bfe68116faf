package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/repository"
	"github.com/spec-kit/offer-service/pkg/util/validation"
)

// MaxDisplayNameLength bounds profile display names.
const MaxDisplayNameLength = 80

// UserService serves profile reads/updates and admin user management.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, dispatcher: dispatcher, logger: logger}
}

type profileInput struct {
	DisplayName string `json:"displayName" validate:"required,max=80"`
}

type roleInput struct {
	Role domain.Role `json:"role" validate:"required,oneof=user admin"`
}

// GetOwnProfile returns the caller's user record.
func (s *UserService) GetOwnProfile(ctx context.Context, p *auth.Principal) (*domain.User, error) {
	if err := auth.Authorize(p, auth.ActionReadOwnProfile, ownerOf(p)); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(err, "user")
	}
	return user, nil
}

// UpdateOwnProfile changes the caller's display name. Role and email are not editable here.
func (s *UserService) UpdateOwnProfile(ctx context.Context, p *auth.Principal, displayName string) (*domain.User, error) {
	if err := auth.Authorize(p, auth.ActionUpdateOwnProfile, ownerOf(p)); err != nil {
		return nil, err
	}
	input := profileInput{DisplayName: strings.TrimSpace(displayName)}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, p.ID, input.DisplayName)
	if err != nil {
		return nil, storeError(err, "user")
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventProfileUpdated,
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		ActorID:    actorOf(p),
		Source:     domain.AuditSourceAPI,
		Payload:    map[string]any{"displayName": user.DisplayName},
	})
	return user, nil
}

// ListAllUsers lists every account with its role.
func (s *UserService) ListAllUsers(ctx context.Context, p *auth.Principal, limit int) ([]domain.User, error) {
	if err := auth.Authorize(p, auth.ActionReadAnyUser, auth.Resource{}); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, storeError(err, "user")
	}
	return users, nil
}

// SetUserRole changes a user's role.
func (s *UserService) SetUserRole(ctx context.Context, p *auth.Principal, id string, role domain.Role) (*domain.User, error) {
	if err := auth.Authorize(p, auth.ActionChangeUserRole, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.changeRole(ctx, actorOf(p), domain.AuditSourceAPI, strings.TrimSpace(id), role)
}

// SetRoleByEmail is the operator path used by the role administration tool. It bypasses
// the evaluator: whoever can run the tool already holds store credentials.
func (s *UserService) SetRoleByEmail(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storeError(err, "user")
	}
	return s.changeRole(ctx, nil, domain.AuditSourceAdmin, user.ID, role)
}

func (s *UserService) changeRole(ctx context.Context, actor *string, source domain.AuditSource, id string, role domain.Role) (*domain.User, error) {
	if err := validation.Struct(roleInput{Role: role}); err != nil {
		return nil, err
	}
	updated, previous, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, storeError(err, "user")
	}
	if previous == role {
		return updated, nil
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserRoleChanged,
		EntityType: domain.EntityUser,
		EntityID:   updated.ID,
		ActorID:    actor,
		Source:     source,
		Payload:    map[string]any{"from": string(previous), "to": string(updated.Role)},
	})
	if updated.Role == domain.RoleAdmin {
		s.logger.Info("admin role granted", zap.String("user_id", updated.ID), zap.String("source", string(source)))
	}
	return updated, nil
}
