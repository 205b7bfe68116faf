package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/offer-service/internal/domain"
)

// PasswordResetRepository manages password reset token persistence.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	// Consume marks the token with tokenHash used, provided it is unused and unexpired at
	// now. It returns ErrNotFound otherwise, so a token can be redeemed at most once.
	Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error)
}

type passwordResetRepository struct {
	pool querier
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(pool *pgxpool.Pool) PasswordResetRepository {
	return &passwordResetRepository{pool: pool}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
	return translate(err)
}

func (r *passwordResetRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	const query = `
        UPDATE password_reset_tokens SET used_at=$2
        WHERE token_hash=$1 AND used_at IS NULL AND expires_at > $2
        RETURNING id, user_id, token_hash, expires_at, used_at, created_at`
	var token domain.PasswordResetToken
	if err := r.pool.QueryRow(ctx, query, tokenHash, now).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &token, nil
}
