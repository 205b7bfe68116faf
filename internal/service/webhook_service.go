package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/audit"
	"github.com/spec-kit/offer-service/internal/domain"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

// UnknownWebhookEvent is the audit action for deliveries that name no event type.
const UnknownWebhookEvent = "unknown_webhook_event"

// DeliveryMarker records delivery ids. MarkDelivery returns true the first time an id
// is seen within ttl.
type DeliveryMarker interface {
	MarkDelivery(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)
}

// WebhookService accepts inbound deliveries from external systems and audits them.
type WebhookService struct {
	secret   string
	recorder *audit.Recorder
	marker   DeliveryMarker
	ttl      time.Duration
	logger   *zap.Logger
}

// WebhookDependencies bundles collaborators for the webhook service.
type WebhookDependencies struct {
	Secret    string
	Recorder  *audit.Recorder
	Marker    DeliveryMarker
	DedupeTTL time.Duration
	Logger    *zap.Logger
}

// WebhookDelivery is one inbound request.
type WebhookDelivery struct {
	Secret     string
	DeliveryID string
	Body       map[string]any
}

// WebhookResult reports what happened to a delivery.
type WebhookResult struct {
	Action    string
	Duplicate bool
}

// NewWebhookService constructs the service. An empty secret disables verification.
func NewWebhookService(deps WebhookDependencies) *WebhookService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Secret == "" {
		logger.Warn("webhook secret not set, skipping verification")
	}
	return &WebhookService{
		secret:   deps.Secret,
		recorder: deps.Recorder,
		marker:   deps.Marker,
		ttl:      deps.DedupeTTL,
		logger:   logger,
	}
}

// Handle verifies and records a delivery. Redeliveries of an id already seen are
// acknowledged without a second audit entry.
func (s *WebhookService) Handle(ctx context.Context, d WebhookDelivery) (*WebhookResult, error) {
	if !s.verify(d.Secret) {
		return nil, apperrors.NewUnauthenticated("invalid webhook secret")
	}

	action := firstString(d.Body, "eventType", "type")
	if action == "" {
		action = UnknownWebhookEvent
	}
	result := &WebhookResult{Action: action}

	if id := strings.TrimSpace(d.DeliveryID); id != "" && s.marker != nil {
		first, err := s.marker.MarkDelivery(ctx, id, s.ttl)
		switch {
		case err != nil:
			s.logger.Warn("webhook dedupe unavailable, processing delivery", zap.String("delivery_id", id), zap.Error(err))
		case !first:
			result.Duplicate = true
			return result, nil
		}
	}

	entry := domain.AuditLogEntry{
		Action:  action,
		Source:  domain.AuditSourceWebhook,
		Payload: d.Body,
	}
	if data, ok := d.Body["data"].(map[string]any); ok {
		entry.Payload = data
	}
	if v := firstString(d.Body, "userId"); v != "" {
		entry.UserID = &v
	}
	if v := firstString(d.Body, "entityType"); v != "" {
		entityType := domain.EntityType(v)
		entry.EntityType = &entityType
	}
	if v := firstString(d.Body, "entityId"); v != "" {
		entry.EntityID = &v
	}
	s.recorder.Record(ctx, entry)
	return result, nil
}

func (s *WebhookService) verify(incoming string) bool {
	if s.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(incoming), []byte(s.secret)) == 1
}

func firstString(body map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := body[k].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
