package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// UserRepository defines persistence access for platform accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	LinkChild(ctx context.Context, parentID, childID int64) error
	ListChildren(ctx context.Context, parentID int64) ([]domain.User, error)
	ListParents(ctx context.Context, childID int64) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, hashed_password, full_name, phone_number, is_active, created_at, updated_at`

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.FullName,
		&user.PhoneNumber,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, hashed_password, full_name, phone_number, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.HashedPassword,
		user.FullName,
		user.PhoneNumber,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, hashed_password=$2, full_name=$3, phone_number=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.HashedPassword,
		user.FullName,
		user.PhoneNumber,
		user.IsActive,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`

	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`

	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, email), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) LinkChild(ctx context.Context, parentID, childID int64) error {
	const query = `
        INSERT INTO parent_child_links (parent_user_id, child_user_id)
        VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, parentID, childID)
	return err
}

func (r *userRepository) ListChildren(ctx context.Context, parentID int64) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.email, u.hashed_password, u.full_name, u.phone_number, u.is_active, u.created_at, u.updated_at
        FROM users u
        JOIN parent_child_links l ON l.child_user_id = u.id
        WHERE l.parent_user_id = $1
        ORDER BY u.id`

	return r.queryUsers(ctx, query, parentID)
}

func (r *userRepository) ListParents(ctx context.Context, childID int64) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.email, u.hashed_password, u.full_name, u.phone_number, u.is_active, u.created_at, u.updated_at
        FROM users u
        JOIN parent_child_links l ON l.parent_user_id = u.id
        WHERE l.child_user_id = $1
        ORDER BY u.id`

	return r.queryUsers(ctx, query, childID)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
