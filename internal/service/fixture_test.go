package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/audit"
	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/observability"
	"github.com/spec-kit/offer-service/internal/repository"
)

type fixture struct {
	store      *repository.InMemoryStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	offers     *OfferService
	users      *UserService
	leads      *LeadService

	alice *auth.Principal
	bob   *auth.Principal
	admin *auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewInMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	audit.NewRecorder(store.AuditLogs(), zap.NewNop(), metrics).Subscribe(dispatcher)

	ctx := context.Background()
	for _, u := range []domain.User{
		{ID: "alice", Email: "alice@example.com", DisplayName: "Alice", Role: domain.RoleUser},
		{ID: "bob", Email: "bob@example.com", DisplayName: "Bob", Role: domain.RoleUser},
		{ID: "root", Email: "root@example.com", DisplayName: "Root", Role: domain.RoleAdmin},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}

	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		metrics:    metrics,
		offers: NewOfferService(OfferDependencies{
			OfferRepo:  store.Offers(),
			UserRepo:   store.Users(),
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
		users: NewUserService(store.Users(), dispatcher, nil),
		leads: NewLeadService(store.Leads(), dispatcher, nil),
		alice: resolve(t, store, "alice"),
		bob:   resolve(t, store, "bob"),
		admin: resolve(t, store, "root"),
	}
}

func resolve(t *testing.T, store *repository.InMemoryStore, id string) *auth.Principal {
	t.Helper()
	p := auth.ResolvePrincipal(context.Background(), auth.Identity{ID: id}, store.Users())
	require.NoError(t, p.RoleErr)
	return p
}

func (f *fixture) createOffer(t *testing.T, userID, title string) *domain.Offer {
	t.Helper()
	offer, err := f.offers.CreateOffer(context.Background(), f.admin, CreateOfferInput{UserID: userID, Title: title})
	require.NoError(t, err)
	return offer
}

func (f *fixture) auditActions() []string {
	entries := f.store.AuditEntries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

// failingOffers simulates an unreachable store.
type failingOffers struct {
	repository.OfferRepository
	err error
}

func (f failingOffers) GetByID(context.Context, string) (*domain.Offer, error) { return nil, f.err }

func (f failingOffers) List(context.Context, int) ([]domain.Offer, error) { return nil, f.err }
