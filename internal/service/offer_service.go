package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/observability"
	"github.com/spec-kit/offer-service/internal/repository"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

// OfferService coordinates offer workflows: creation by admins and the
// pending -> accepted | declined lifecycle.
type OfferService struct {
	offers     repository.OfferRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// OfferDependencies bundles collaborators for the offer service.
type OfferDependencies struct {
	OfferRepo  repository.OfferRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// CreateOfferInput describes an offer to create. Status is accepted for
// compatibility with older clients and ignored: new offers are always pending.
type CreateOfferInput struct {
	UserID      string
	Title       string
	Description string
	Status      domain.OfferStatus
}

// NewOfferService constructs the service.
func NewOfferService(deps OfferDependencies) *OfferService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferService{
		offers:     deps.OfferRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CreateOffer creates a pending offer for an existing user.
func (s *OfferService) CreateOffer(ctx context.Context, p *auth.Principal, input CreateOfferInput) (*domain.Offer, error) {
	if err := auth.Authorize(p, auth.ActionCreateOffer, auth.Resource{}); err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		UserID:      strings.TrimSpace(input.UserID),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		CreatedBy:   p.ID,
	}
	domain.NormalizeOffer(offer)

	details := map[string]any{}
	if offer.UserID == "" {
		details["userId"] = "userId is required"
	}
	if offer.Title == "" {
		details["title"] = "title is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	if _, err := s.users.GetByID(ctx, offer.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("validation failed", map[string]any{"userId": "user does not exist"})
		}
		return nil, storeError(err, "user")
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("validation failed", map[string]any{"userId": "user does not exist"})
		}
		return nil, storeError(err, "offer")
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventOfferCreated,
		EntityType: domain.EntityOffer,
		EntityID:   offer.ID,
		ActorID:    actorOf(p),
		Source:     domain.AuditSourceAPI,
		Payload: map[string]any{
			"userId": offer.UserID,
			"title":  offer.Title,
			"status": string(offer.Status),
		},
	})
	return offer, nil
}

// GetOwnOffer returns one of the caller's offers. Offers that are missing or belong to
// someone else are indistinguishable to non-admins.
func (s *OfferService) GetOwnOffer(ctx context.Context, p *auth.Principal, id string) (*domain.Offer, error) {
	return s.load(ctx, p, auth.ActionReadOwnOffer, id)
}

// ListOwnOffers lists offers addressed to the caller, newest first.
func (s *OfferService) ListOwnOffers(ctx context.Context, p *auth.Principal, limit int) ([]domain.Offer, error) {
	if err := auth.Authorize(p, auth.ActionReadOwnOffer, ownerOf(p)); err != nil {
		return nil, err
	}
	offers, err := s.offers.ListByUser(ctx, p.ID, limit)
	if err != nil {
		return nil, storeError(err, "offer")
	}
	return offers, nil
}

// ListAllOffers lists every offer, newest first.
func (s *OfferService) ListAllOffers(ctx context.Context, p *auth.Principal, limit int) ([]domain.Offer, error) {
	if err := auth.Authorize(p, auth.ActionReadAnyOffer, auth.Resource{}); err != nil {
		return nil, err
	}
	offers, err := s.offers.List(ctx, limit)
	if err != nil {
		return nil, storeError(err, "offer")
	}
	return offers, nil
}

// AcceptOwnOffer moves a pending offer to accepted on behalf of its owner.
func (s *OfferService) AcceptOwnOffer(ctx context.Context, p *auth.Principal, id string) (*domain.Offer, error) {
	return s.transition(ctx, p, auth.ActionTransitionOfferStatus, id, domain.OfferStatusAccepted)
}

// DeclineOwnOffer moves a pending offer to declined. Only the owner may decline.
func (s *OfferService) DeclineOwnOffer(ctx context.Context, p *auth.Principal, id string) (*domain.Offer, error) {
	return s.transition(ctx, p, auth.ActionDeclineOwnOffer, id, domain.OfferStatusDeclined)
}

// AcceptOfferAsAdmin accepts any pending offer. Non-admins are rejected before the
// offer is looked up.
func (s *OfferService) AcceptOfferAsAdmin(ctx context.Context, p *auth.Principal, id string) (*domain.Offer, error) {
	if err := auth.Authorize(p, auth.ActionReadAnyOffer, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.transition(ctx, p, auth.ActionTransitionOfferStatus, id, domain.OfferStatusAccepted)
}

func (s *OfferService) transition(ctx context.Context, p *auth.Principal, action auth.Action, id string, to domain.OfferStatus) (*domain.Offer, error) {
	offer, err := s.load(ctx, p, action, id)
	if err != nil {
		return nil, err
	}

	from := offer.Status
	if !domain.CanTransition(from, to) {
		return nil, invalidTransition(from, to)
	}

	updated, err := s.offers.TransitionStatus(ctx, offer.ID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, invalidTransition(from, to)
		}
		return nil, storeError(err, "offer")
	}
	s.metrics.RecordOfferTransition(string(to))

	eventType := events.EventOfferAccepted
	if to == domain.OfferStatusDeclined {
		eventType = events.EventOfferDeclined
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       eventType,
		EntityType: domain.EntityOffer,
		EntityID:   updated.ID,
		ActorID:    actorOf(p),
		Source:     domain.AuditSourceAPI,
		Payload:    events.OfferTransitionPayload(from, to),
	})
	return updated, nil
}

// load fetches an offer and authorizes action on it. A missing offer is evaluated as an
// unowned resource first, so only callers allowed to see any offer learn it is missing.
func (s *OfferService) load(ctx context.Context, p *auth.Principal, action auth.Action, id string) (*domain.Offer, error) {
	if d := auth.Evaluate(p, action, auth.Resource{}); d.Reason == auth.ReasonUnauthenticated || d.Reason == auth.ReasonRoleUnavailable {
		return nil, d.Err()
	}

	offer, err := s.offers.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storeError(err, "offer")
		}
		if authErr := auth.Authorize(p, action, auth.Resource{}); authErr != nil {
			return nil, authErr
		}
		return nil, apperrors.NewNotFound("offer")
	}

	if err := auth.Authorize(p, action, auth.OwnedBy(offer.UserID)); err != nil {
		return nil, err
	}
	return offer, nil
}

func invalidTransition(from, to domain.OfferStatus) error {
	return apperrors.NewInvalidTransition("offer cannot move from "+string(from)+" to "+string(to), map[string]any{
		"from": string(from),
		"to":   string(to),
	})
}
