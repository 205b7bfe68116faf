package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/config"
	"github.com/spec-kit/offer-service/internal/events"
)

// NotificationService reacts to domain events with notifications. Delivery is log-only:
// no email is sent and no outbound webhook is called.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOfferCreated, n.handleOfferCreated)
	n.dispatcher.Subscribe(events.EventOfferAccepted, n.handleOfferDecided)
	n.dispatcher.Subscribe(events.EventOfferDeclined, n.handleOfferDecided)
	n.dispatcher.Subscribe(events.EventUserRoleChanged, n.handleRoleChanged)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleOfferCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("OfferCreated", zap.String("offer_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOfferDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("OfferDecided", zap.String("offer_id", event.EntityID), zap.String("event_type", string(event.Type)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRoleChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRoleChanged", zap.String("user_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordResetRequested", zap.String("user_id", event.EntityID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// sendEmailNotificationStub only logs the notification it would send.
func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}

// sendWebhookNotificationStub only logs the request it would make.
func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}
