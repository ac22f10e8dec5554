package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// RoleRepository handles persistence for roles and their permission grants.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	List(ctx context.Context, limit, offset int) ([]domain.Role, error)
	GrantPermission(ctx context.Context, roleID, permissionID int64) error
	ListPermissions(ctx context.Context, roleID int64) ([]domain.Permission, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (name, school_id)
        VALUES ($1, $2)
        RETURNING id`

	return r.pool.QueryRow(ctx, query, role.Name, role.SchoolID).Scan(&role.ID)
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	const query = `SELECT id, name, school_id FROM roles WHERE id=$1`

	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.SchoolID); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, limit, offset int) ([]domain.Role, error) {
	query := `SELECT id, name, school_id FROM roles ORDER BY id`
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.SchoolID); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) GrantPermission(ctx context.Context, roleID, permissionID int64) error {
	const query = `
        INSERT INTO role_permissions (role_id, permission_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`

	_, err := r.pool.Exec(ctx, query, roleID, permissionID)
	return err
}

func (r *roleRepository) ListPermissions(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	const query = `
        SELECT p.id, p.name
        FROM permissions p
        JOIN role_permissions rp ON rp.permission_id = p.id
        WHERE rp.role_id = $1
        ORDER BY p.id`

	rows, err := r.pool.Query(ctx, query, roleID)
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
