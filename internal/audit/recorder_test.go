package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/observability"
	"github.com/spec-kit/offer-service/internal/repository"
)

func assertAuditFailures(t *testing.T, metrics *observability.Metrics, want int) {
	t.Helper()
	expected := fmt.Sprintf(`
# HELP audit_failures_total Audit entries that could not be appended.
# TYPE audit_failures_total counter
audit_failures_total %d
`, want)
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "audit_failures_total"))
}

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, *domain.AuditLogEntry) error { return f.err }

func TestRecordAppendsWithSortableID(t *testing.T) {
	store := repository.NewInMemoryStore()
	rec := NewRecorder(store.AuditLogs(), zap.NewNop(), nil)

	payload := map[string]any{"from": "pending"}
	rec.Record(context.Background(), domain.AuditLogEntry{Action: "offer_accepted", Source: domain.AuditSourceAPI, Payload: payload})
	rec.Record(context.Background(), domain.AuditLogEntry{Action: "lead_created", Source: domain.AuditSourceAdmin})
	payload["from"] = "mutated"

	entries := store.AuditEntries()
	require.Len(t, entries, 2)
	assert.Len(t, entries[0].ID, 26)
	assert.Less(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, "pending", entries[0].Payload["from"])
	assert.NotNil(t, entries[1].Payload)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestRecordRejectsIncompleteEntries(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := repository.NewInMemoryStore()
	metrics := observability.NewMetrics()
	rec := NewRecorder(store.AuditLogs(), zap.New(core), metrics)

	rec.Record(context.Background(), domain.AuditLogEntry{Action: "  ", Source: domain.AuditSourceAPI})
	rec.Record(context.Background(), domain.AuditLogEntry{Action: "offer_created"})

	assert.Empty(t, store.AuditEntries())
	assert.Equal(t, 2, logs.Len())
	assertAuditFailures(t, metrics, 2)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	metrics := observability.NewMetrics()
	rec := NewRecorder(failingStore{err: errors.New("disk full")}, zap.New(core), metrics)

	entityID := "offer-1"
	rec.Record(context.Background(), domain.AuditLogEntry{Action: "offer_accepted", Source: domain.AuditSourceAPI, EntityID: &entityID})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit append failed", entry.Message)
	assert.Equal(t, "offer-1", entry.ContextMap()["entity_id"])
	assert.Equal(t, "offer_accepted", entry.ContextMap()["action"])
	assertAuditFailures(t, metrics, 1)
}

func TestHandleEventProducesOneEntry(t *testing.T) {
	store := repository.NewInMemoryStore()
	rec := NewRecorder(store.AuditLogs(), zap.NewNop(), nil)
	dispatcher := events.NewInMemoryDispatcher()
	rec.Subscribe(dispatcher)

	actor := "alice"
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventOfferDeclined,
		EntityType: domain.EntityOffer,
		EntityID:   "offer-9",
		ActorID:    &actor,
		Payload:    events.OfferTransitionPayload(domain.OfferStatusPending, domain.OfferStatusDeclined),
	})
	require.NoError(t, err)

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, "offer_declined", got.Action)
	assert.Equal(t, domain.AuditSourceAPI, got.Source)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "alice", *got.UserID)
	require.NotNil(t, got.EntityType)
	assert.Equal(t, domain.EntityOffer, *got.EntityType)
	require.NotNil(t, got.EntityID)
	assert.Equal(t, "offer-9", *got.EntityID)
	assert.Equal(t, "declined", got.Payload["to"])
}
