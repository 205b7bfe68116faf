package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/repository"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

// storeError maps repository sentinels onto the error taxonomy. resource names the
// record for NotFound messages.
func storeError(err error, resource string) error {
	var domainErr *apperrors.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	case errors.Is(err, repository.ErrStatusConflict):
		return apperrors.NewInvalidTransition("status changed concurrently", nil)
	case errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperrors.NewDependencyUnavailable("store", err)
	default:
		return apperrors.NewInternalError(err)
	}
}

// ownerOf builds the resource for the caller's own records. A nil principal yields an
// unowned resource; Evaluate rejects it as unauthenticated before ownership matters.
func ownerOf(p *auth.Principal) auth.Resource {
	if p == nil {
		return auth.Resource{}
	}
	return auth.OwnedBy(p.ID)
}

func actorOf(p *auth.Principal) *string {
	if p == nil || p.ID == "" {
		return nil
	}
	id := p.ID
	return &id
}

// publish hands the event to subscribers. Subscriber failures never fail the mutation
// that already committed.
func publish(ctx context.Context, d events.Dispatcher, logger *zap.Logger, event events.Event) {
	if d == nil {
		return
	}
	if err := d.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event subscriber failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
