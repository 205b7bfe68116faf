package events

import (
	"time"

	"github.com/spec-kit/offer-service/internal/domain"
)

// EventType enumerates supported event identifiers. The value doubles as the audit action.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventProfileUpdated         EventType = "profile_updated"
	EventUserRoleChanged        EventType = "user_role_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
	EventOfferCreated           EventType = "offer_created"
	EventOfferAccepted          EventType = "offer_accepted"
	EventOfferDeclined          EventType = "offer_declined"
	EventLeadCreated            EventType = "lead_created"
	EventLeadUpdated            EventType = "lead_updated"
	EventLeadDeleted            EventType = "lead_deleted"
)

// Types lists every event type services publish.
func Types() []EventType {
	return []EventType{
		EventUserRegistered,
		EventProfileUpdated,
		EventUserRoleChanged,
		EventPasswordResetRequested,
		EventPasswordResetCompleted,
		EventOfferCreated,
		EventOfferAccepted,
		EventOfferDeclined,
		EventLeadCreated,
		EventLeadUpdated,
		EventLeadDeleted,
	}
}

// Event represents a domain event emitted by services after a successful mutation.
type Event struct {
	Type       EventType          `json:"type"`
	EntityType domain.EntityType  `json:"entity_type"`
	EntityID   string             `json:"entity_id"`
	ActorID    *string            `json:"actor_id,omitempty"`
	Source     domain.AuditSource `json:"source"`
	Timestamp  time.Time          `json:"timestamp"`
	Payload    map[string]any     `json:"payload"`
}

// OfferTransitionPayload describes a status change.
func OfferTransitionPayload(from, to domain.OfferStatus) map[string]any {
	return map[string]any{"from": string(from), "to": string(to)}
}
