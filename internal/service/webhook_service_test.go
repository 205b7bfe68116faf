package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/audit"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/repository"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

type memoryMarker struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (m *memoryMarker) MarkDelivery(_ context.Context, id string, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func newWebhookService(store *repository.InMemoryStore, secret string, marker DeliveryMarker) *WebhookService {
	return NewWebhookService(WebhookDependencies{
		Secret:    secret,
		Recorder:  audit.NewRecorder(store.AuditLogs(), zap.NewNop(), nil),
		Marker:    marker,
		DedupeTTL: time.Hour,
	})
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := newWebhookService(store, "hook-secret", nil)

	_, err := svc.Handle(context.Background(), WebhookDelivery{Secret: "guess", Body: map[string]any{"eventType": "x"}})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
	_, err = svc.Handle(context.Background(), WebhookDelivery{Body: map[string]any{"eventType": "x"}})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
	assert.Empty(t, store.AuditEntries())
}

func TestWebhookRecordsDelivery(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := newWebhookService(store, "hook-secret", nil)

	result, err := svc.Handle(context.Background(), WebhookDelivery{
		Secret: "hook-secret",
		Body: map[string]any{
			"eventType":  "lead_synced",
			"entityType": "lead",
			"entityId":   "lead-7",
			"userId":     "alice",
			"data":       map[string]any{"crm": "base"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "lead_synced", result.Action)

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, domain.AuditSourceWebhook, e.Source)
	assert.Equal(t, "lead_synced", e.Action)
	assert.Equal(t, "base", e.Payload["crm"])
	require.NotNil(t, e.EntityID)
	assert.Equal(t, "lead-7", *e.EntityID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, "alice", *e.UserID)
}

func TestWebhookWithoutSecretOrEventType(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := newWebhookService(store, "", nil)

	body := map[string]any{"anything": true}
	result, err := svc.Handle(context.Background(), WebhookDelivery{Body: body})
	require.NoError(t, err)
	assert.Equal(t, UnknownWebhookEvent, result.Action)

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].Payload["anything"])
	assert.Nil(t, entries[0].EntityType)
}

func TestWebhookDeduplicatesDeliveries(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := newWebhookService(store, "s", &memoryMarker{})
	delivery := WebhookDelivery{Secret: "s", DeliveryID: "dlv-1", Body: map[string]any{"eventType": "ping"}}

	first, err := svc.Handle(context.Background(), delivery)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := svc.Handle(context.Background(), delivery)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Len(t, store.AuditEntries(), 1)
}

func TestWebhookDedupeOutageStillRecords(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := newWebhookService(store, "s", &memoryMarker{err: errors.New("redis down")})
	delivery := WebhookDelivery{Secret: "s", DeliveryID: "dlv-1", Body: map[string]any{"eventType": "ping"}}

	for i := 0; i < 2; i++ {
		result, err := svc.Handle(context.Background(), delivery)
		require.NoError(t, err)
		assert.False(t, result.Duplicate)
	}
	assert.Len(t, store.AuditEntries(), 2)
}
