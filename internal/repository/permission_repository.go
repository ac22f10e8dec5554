package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// PermissionRepository reads the permission catalog seeded by migrations.
type PermissionRepository interface {
	List(ctx context.Context) ([]domain.Permission, error)
	GetByName(ctx context.Context, name string) (*domain.Permission, error)
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository instantiates the repository.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	const query = `SELECT id, name FROM permissions ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Permission
	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.Name); err != nil {
			return nil, err
		}
		result = append(result, perm)
	}
	return result, rows.Err()
}

func (r *permissionRepository) GetByName(ctx context.Context, name string) (*domain.Permission, error) {
	const query = `SELECT id, name FROM permissions WHERE name=$1`

	var perm domain.Permission
	if err := r.pool.QueryRow(ctx, query, name).Scan(&perm.ID, &perm.Name); err != nil {
		return nil, err
	}
	return &perm, nil
}
