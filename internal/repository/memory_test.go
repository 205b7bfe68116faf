package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/offer-service/internal/domain"
)

func seedOffer(t *testing.T, store *InMemoryStore) *domain.Offer {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "alice", Email: "alice@example.com", Role: domain.RoleUser}))
	offer := &domain.Offer{UserID: "alice", Title: "Welcome bonus", Status: domain.OfferStatusPending, CreatedBy: "root"}
	require.NoError(t, store.Offers().Create(ctx, offer))
	return offer
}

func TestInMemoryTransitionStatusIsConditional(t *testing.T) {
	store := NewInMemoryStore()
	offer := seedOffer(t, store)
	ctx := context.Background()

	updated, err := store.Offers().TransitionStatus(ctx, offer.ID, domain.OfferStatusPending, domain.OfferStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferStatusAccepted, updated.Status)

	_, err = store.Offers().TransitionStatus(ctx, offer.ID, domain.OfferStatusPending, domain.OfferStatusDeclined)
	assert.ErrorIs(t, err, ErrStatusConflict)

	_, err = store.Offers().TransitionStatus(ctx, "missing", domain.OfferStatusPending, domain.OfferStatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryTransitionStatusRace(t *testing.T) {
	store := NewInMemoryStore()
	offer := seedOffer(t, store)

	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := domain.OfferStatusAccepted
			if i%2 == 1 {
				to = domain.OfferStatusDeclined
			}
			_, err := store.Offers().TransitionStatus(context.Background(), offer.ID, domain.OfferStatusPending, to)
			switch err {
			case nil:
				wins.Add(1)
			case ErrStatusConflict:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(31), conflicts.Load())
}

func TestInMemoryReturnsCopies(t *testing.T) {
	store := NewInMemoryStore()
	offer := seedOffer(t, store)

	got, err := store.Offers().GetByID(context.Background(), offer.ID)
	require.NoError(t, err)
	got.Status = domain.OfferStatusAccepted

	again, err := store.Offers().GetByID(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferStatusPending, again.Status)
}

func TestInMemoryUsersRejectDuplicateEmail(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "u1", Email: "a@example.com"}))
	err := store.Users().Create(ctx, &domain.User{ID: "u2", Email: "A@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestInMemoryListNewestFirst(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, store.Leads().Create(ctx, &domain.Lead{Name: name, Status: domain.LeadStatusNew}))
	}
	leads, err := store.Leads().List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "third", leads[0].Name)
	assert.Equal(t, "second", leads[1].Name)
}

func TestInMemoryOfferRequiresExistingUser(t *testing.T) {
	store := NewInMemoryStore()
	err := store.Offers().Create(context.Background(), &domain.Offer{UserID: "ghost", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryUpdateRoleReturnsPrevious(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "alice", Email: "alice@example.com", Role: domain.RoleUser}))

	user, previous, err := store.Users().UpdateRole(ctx, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, previous)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, previous, err = store.Users().UpdateRole(ctx, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, previous)

	_, _, err = store.Users().UpdateRole(ctx, "missing", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryPasswordResetIsSingleUse(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "alice", Email: "alice@example.com", Role: domain.RoleUser}))

	resets := store.PasswordResets()
	require.NoError(t, resets.Create(ctx, &domain.PasswordResetToken{ID: "r1", UserID: "alice", TokenHash: "h1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, resets.Create(ctx, &domain.PasswordResetToken{ID: "r2", UserID: "alice", TokenHash: "h2", ExpiresAt: now.Add(time.Minute)}))
	assert.ErrorIs(t, resets.Create(ctx, &domain.PasswordResetToken{ID: "r3", UserID: "ghost", TokenHash: "h3", ExpiresAt: now.Add(time.Hour)}), ErrNotFound)

	token, err := resets.Consume(ctx, "h1", now)
	require.NoError(t, err)
	assert.Equal(t, "alice", token.UserID)
	require.NotNil(t, token.UsedAt)

	_, err = resets.Consume(ctx, "h1", now)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = resets.Consume(ctx, "h2", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = resets.Consume(ctx, "unknown", now)
	assert.ErrorIs(t, err, ErrNotFound)
}
