package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/edu-platform/internal/domain"
)

// ProfileRepository handles the optional per-user specialization rows. Each
// kind lives in its own table keyed by user_id; the kinds are independent.
type ProfileRepository interface {
	Create(ctx context.Context, userID int64, kind domain.ProfileKind) error
	ListKindsByUser(ctx context.Context, userID int64) ([]domain.ProfileKind, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates the repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func profileTable(kind domain.ProfileKind) (string, error) {
	switch kind {
	case domain.ProfileStudent:
		return "student_profiles", nil
	case domain.ProfileTeacher:
		return "teacher_profiles", nil
	case domain.ProfileParent:
		return "parent_profiles", nil
	}
	return "", fmt.Errorf("unknown profile kind %q", kind)
}

func (r *profileRepository) Create(ctx context.Context, userID int64, kind domain.ProfileKind) error {
	table, err := profileTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id) VALUES ($1)`, table)
	_, err = r.pool.Exec(ctx, query, userID)
	return err
}

func (r *profileRepository) ListKindsByUser(ctx context.Context, userID int64) ([]domain.ProfileKind, error) {
	const query = `
        SELECT 'STUDENT' FROM student_profiles WHERE user_id=$1
        UNION ALL
        SELECT 'TEACHER' FROM teacher_profiles WHERE user_id=$1
        UNION ALL
        SELECT 'PARENT' FROM parent_profiles WHERE user_id=$1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProfileKind
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, err
		}
		result = append(result, domain.ProfileKind(kind))
	}
	return result, rows.Err()
}
