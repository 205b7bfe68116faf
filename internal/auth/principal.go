package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/repository"
)

// Principal is the authenticated caller with the role resolved for this request.
// RoleErr is set when the role could not be read; such a principal is denied everything.
type Principal struct {
	ID      string
	Email   string
	Role    domain.Role
	RoleErr error
}

// UserLookup is the slice of the user store needed to resolve roles.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ResolvePrincipal reads the caller's role from the store. A missing user record
// yields the user role; a store failure is recorded on the principal, never escalated.
func ResolvePrincipal(ctx context.Context, identity Identity, users UserLookup) *Principal {
	p := &Principal{ID: identity.ID, Email: identity.Email, Role: domain.RoleUser}
	user, err := users.GetByID(ctx, identity.ID)
	switch {
	case err == nil:
		if user.Role.Valid() {
			p.Role = user.Role
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		p.RoleErr = err
	}
	return p
}
