package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/repository"
)

type lookupFunc func(ctx context.Context, id string) (*domain.User, error)

func (f lookupFunc) GetByID(ctx context.Context, id string) (*domain.User, error) { return f(ctx, id) }

func TestResolvePrincipal(t *testing.T) {
	ctx := context.Background()
	identity := Identity{ID: "alice", Email: "alice@example.com"}

	t.Run("stored role wins", func(t *testing.T) {
		p := ResolvePrincipal(ctx, identity, lookupFunc(func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: "alice", Role: domain.RoleAdmin}, nil
		}))
		require.NoError(t, p.RoleErr)
		assert.True(t, p.IsAdmin())
		assert.Equal(t, "alice@example.com", p.Email)
	})

	t.Run("missing record is a plain user", func(t *testing.T) {
		p := ResolvePrincipal(ctx, identity, lookupFunc(func(context.Context, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		}))
		assert.NoError(t, p.RoleErr)
		assert.Equal(t, domain.RoleUser, p.Role)
	})

	t.Run("garbage role is a plain user", func(t *testing.T) {
		p := ResolvePrincipal(ctx, identity, lookupFunc(func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: "alice", Role: domain.Role("superuser")}, nil
		}))
		assert.Equal(t, domain.RoleUser, p.Role)
	})

	t.Run("store failure is carried, not escalated", func(t *testing.T) {
		p := ResolvePrincipal(ctx, identity, lookupFunc(func(context.Context, string) (*domain.User, error) {
			return nil, repository.ErrUnavailable
		}))
		assert.True(t, errors.Is(p.RoleErr, repository.ErrUnavailable))
		assert.False(t, p.IsAdmin())
	})
}
