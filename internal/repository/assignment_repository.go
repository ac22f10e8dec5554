package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// AssignmentRepository handles persistence for branch-scoped role grants.
// The table carries no composite uniqueness: inserting the same
// (user, role, branch) tuple twice yields two rows.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.UserRoleAssignment) error
	ListByUser(ctx context.Context, userID int64) ([]domain.UserRoleAssignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.UserRoleAssignment) error {
	const query = `
        INSERT INTO user_role_assignments (user_id, role_id, branch_id)
        VALUES ($1, $2, $3)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		assignment.UserID,
		assignment.RoleID,
		assignment.BranchID,
	).Scan(&assignment.ID)
}

func (r *assignmentRepository) ListByUser(ctx context.Context, userID int64) ([]domain.UserRoleAssignment, error) {
	const query = `
        SELECT id, user_id, role_id, branch_id
        FROM user_role_assignments
        WHERE user_id=$1
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserRoleAssignment
	for rows.Next() {
		var assignment domain.UserRoleAssignment
		if err := rows.Scan(&assignment.ID, &assignment.UserID, &assignment.RoleID, &assignment.BranchID); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}
