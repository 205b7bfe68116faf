package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/offer-service/internal/config"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
)

func TestNotificationsAreLogOnly(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	notifications := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{EmailFrom: "noreply@example.com"})
	notifications.RegisterHandlers()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:       events.EventPasswordResetRequested,
		EntityType: domain.EntityUser,
		EntityID:   "alice",
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:       events.EventOfferAccepted,
		EntityType: domain.EntityOffer,
		EntityID:   "o1",
	}))

	email := logs.FilterMessage("sendEmailNotificationStub").All()
	require.Len(t, email, 1)
	assert.Equal(t, "noreply@example.com", email[0].ContextMap()["from"])
	assert.Equal(t, "alice", email[0].ContextMap()["entity_id"])

	assert.Equal(t, 1, logs.FilterMessage("OfferDecided").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}
