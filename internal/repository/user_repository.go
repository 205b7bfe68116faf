package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/offer-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, id, displayName string) (*domain.User, error)
	// UpdateRole sets the role and returns the updated user together with the role it
	// replaced, both read in the same write.
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, domain.Role, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit int) ([]domain.User, error)
}

type userRepository struct {
	pool querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, display_name, password_hash, role, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, email, display_name, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id, displayName string) (*domain.User, error) {
	query := `UPDATE users SET display_name=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + userColumns
	return r.fetchSingle(ctx, query, displayName, id)
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, domain.Role, error) {
	const query = `
        WITH prev AS (SELECT id, role FROM users WHERE id=$2 FOR UPDATE)
        UPDATE users u
        SET role=$1,
            updated_at=CASE WHEN prev.role=$1 THEN u.updated_at ELSE NOW() END
        FROM prev
        WHERE u.id=prev.id
        RETURNING u.id, u.email, u.display_name, u.password_hash, u.role, u.created_at, u.updated_at, prev.role`
	var (
		user     domain.User
		previous domain.Role
	)
	err := r.pool.QueryRow(ctx, query, role, id).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&previous,
	)
	if err != nil {
		return nil, "", translate(err)
	}
	return &user, previous, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *userRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, translate(err)
		}
		result = append(result, *user)
	}
	return result, translate(rows.Err())
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
