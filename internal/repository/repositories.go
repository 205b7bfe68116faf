package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the part of *pgxpool.Pool the Postgres repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles the stores the services depend on.
type Repositories struct {
	Users     UserRepository
	Offers    OfferRepository
	Leads     LeadRepository
	AuditLogs AuditLogRepository
	Resets    PasswordResetRepository
}

// NewPostgresRepositories builds pgx-backed repositories sharing one pool.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:     NewUserRepository(pool),
		Offers:    NewOfferRepository(pool),
		Leads:     NewLeadRepository(pool),
		AuditLogs: NewAuditLogRepository(pool),
		Resets:    NewPasswordResetRepository(pool),
	}
}

// Repositories exposes the in-memory store through the same bundle.
func (s *InMemoryStore) Repositories() Repositories {
	return Repositories{
		Users:     s.Users(),
		Offers:    s.Offers(),
		Leads:     s.Leads(),
		AuditLogs: s.AuditLogs(),
		Resets:    s.PasswordResets(),
	}
}
