package domain

import "time"

// AuditSource records which surface produced an audit entry.
type AuditSource string

const (
	AuditSourceAPI     AuditSource = "api"
	AuditSourceWebhook AuditSource = "webhook"
	AuditSourceAdmin   AuditSource = "admin"
)

// EntityType names the kind of record an audit entry refers to.
type EntityType string

const (
	EntityOffer EntityType = "offer"
	EntityLead  EntityType = "lead"
	EntityUser  EntityType = "user"
)

// AuditLogEntry is an immutable record of a mutating action. EntityID is a loose
// reference; it may point at a record that no longer exists.
type AuditLogEntry struct {
	ID         string
	UserID     *string
	Action     string
	EntityType *EntityType
	EntityID   *string
	Payload    map[string]any
	Source     AuditSource
	CreatedAt  time.Time
}
