package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/offer-service/internal/domain"
)

// LeadRepository encapsulates lead persistence.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, limit int) ([]domain.Lead, error)
	Delete(ctx context.Context, id string) error
}

type leadRepository struct {
	pool querier
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, name, email, source, status, notes, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (name, email, source, status, notes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		lead.Name,
		lead.Email,
		lead.Source,
		lead.Status,
		lead.Notes,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	return translate(err)
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	const query = `
        UPDATE leads SET name=$1, email=$2, source=$3, status=$4, notes=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		lead.Name,
		lead.Email,
		lead.Source,
		lead.Status,
		lead.Notes,
		lead.ID,
	).Scan(&lead.UpdatedAt)
	return translate(err)
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return lead, nil
}

func (r *leadRepository) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, translate(err)
		}
		result = append(result, *lead)
	}
	return result, translate(rows.Err())
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Source,
		&lead.Status,
		&lead.Notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
