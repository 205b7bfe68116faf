package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/offer-service/internal/domain"
)

// AuditLogRepository appends audit entries. There is intentionally no update, delete or read.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
}

type auditLogRepository struct {
	pool querier
}

// NewAuditLogRepository builds repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	const query = `
        INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, payload, source)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	payload := entry.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		payload,
		entry.Source,
	).Scan(&entry.CreatedAt)
	return translate(err)
}
