package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// SchoolRepository handles persistence for schools.
type SchoolRepository interface {
	Create(ctx context.Context, school *domain.School) error
	GetByID(ctx context.Context, id int64) (*domain.School, error)
	List(ctx context.Context, limit, offset int) ([]domain.School, error)
}

type schoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository instantiates the repository.
func NewSchoolRepository(pool *pgxpool.Pool) SchoolRepository {
	return &schoolRepository{pool: pool}
}

func (r *schoolRepository) Create(ctx context.Context, school *domain.School) error {
	const query = `
        INSERT INTO schools (name)
        VALUES ($1)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, school.Name).Scan(&school.ID, &school.CreatedAt)
}

func (r *schoolRepository) GetByID(ctx context.Context, id int64) (*domain.School, error) {
	const query = `SELECT id, name, created_at FROM schools WHERE id=$1`

	var school domain.School
	if err := r.pool.QueryRow(ctx, query, id).Scan(&school.ID, &school.Name, &school.CreatedAt); err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepository) List(ctx context.Context, limit, offset int) ([]domain.School, error) {
	query := `SELECT id, name, created_at FROM schools ORDER BY id`
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

	var result []domain.School
	for rows.Next() {
		var school domain.School
		if err := rows.Scan(&school.ID, &school.Name, &school.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, school)
	}
	return result, rows.Err()
}
