package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// BranchRepository handles persistence for school branches.
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	GetByID(ctx context.Context, id int64) (*domain.Branch, error)
	ListBySchool(ctx context.Context, schoolID int64) ([]domain.Branch, error)
}

type branchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository instantiates the repository.
func NewBranchRepository(pool *pgxpool.Pool) BranchRepository {
	return &branchRepository{pool: pool}
}

func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	const query = `
        INSERT INTO branches (name, school_id)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, branch.Name, branch.SchoolID).Scan(&branch.ID, &branch.CreatedAt)
}

func (r *branchRepository) GetByID(ctx context.Context, id int64) (*domain.Branch, error) {
	const query = `SELECT id, name, school_id, created_at FROM branches WHERE id=$1`

	var branch domain.Branch
	if err := r.pool.QueryRow(ctx, query, id).Scan(&branch.ID, &branch.Name, &branch.SchoolID, &branch.CreatedAt); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) ListBySchool(ctx context.Context, schoolID int64) ([]domain.Branch, error) {
	const query = `SELECT id, name, school_id, created_at FROM branches WHERE school_id=$1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Branch
	for rows.Next() {
		var branch domain.Branch
		if err := rows.Scan(&branch.ID, &branch.Name, &branch.SchoolID, &branch.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, branch)
	}
	return result, rows.Err()
}
