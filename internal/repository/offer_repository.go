package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/offer-service/internal/domain"
)

// OfferRepository encapsulates offer persistence.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Offer, error)
	List(ctx context.Context, limit int) ([]domain.Offer, error)
	// TransitionStatus moves the offer from `from` to `to` only if its stored status is
	// still `from`. It returns ErrStatusConflict when the precondition fails.
	TransitionStatus(ctx context.Context, id string, from, to domain.OfferStatus) (*domain.Offer, error)
}

type offerRepository struct {
	pool querier
}

// NewOfferRepository instantiates repository.
func NewOfferRepository(pool *pgxpool.Pool) OfferRepository {
	return &offerRepository{pool: pool}
}

const offerColumns = `id, user_id, title, description, status, created_by, created_at, updated_at`

func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	const query = `
        INSERT INTO offers (user_id, title, description, status, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		offer.UserID,
		offer.Title,
		offer.Description,
		offer.Status,
		offer.CreatedBy,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt)
	return translate(err)
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	offer, err := scanOffer(r.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return offer, nil
}

func (r *offerRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, userID, clampLimit(limit))
}

func (r *offerRepository) List(ctx context.Context, limit int) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, clampLimit(limit))
}

func (r *offerRepository) TransitionStatus(ctx context.Context, id string, from, to domain.OfferStatus) (*domain.Offer, error) {
	query := `
        UPDATE offers SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING ` + offerColumns
	offer, err := scanOffer(r.pool.QueryRow(ctx, query, to, id, from))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, translate(err)
	}
	return offer, nil
}

func (r *offerRepository) list(ctx context.Context, query string, args ...any) ([]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, translate(err)
		}
		result = append(result, *offer)
	}
	return result, translate(rows.Err())
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var offer domain.Offer
	if err := row.Scan(
		&offer.ID,
		&offer.UserID,
		&offer.Title,
		&offer.Description,
		&offer.Status,
		&offer.CreatedBy,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &offer, nil
}
