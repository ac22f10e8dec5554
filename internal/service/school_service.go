package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/events"
	"github.com/spec-kit/edu-platform/internal/repository"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// SchoolService coordinates school and branch management.
type SchoolService struct {
	schools    repository.SchoolRepository
	branches   repository.BranchRepository
	dispatcher events.Dispatcher
}

// NewSchoolService builds the service.
func NewSchoolService(schools repository.SchoolRepository, branches repository.BranchRepository, dispatcher events.Dispatcher) *SchoolService {
	return &SchoolService{schools: schools, branches: branches, dispatcher: dispatcher}
}

// SchoolWithBranches pairs a school with its explicitly queried branch list.
type SchoolWithBranches struct {
	School   domain.School
	Branches []domain.Branch
}

// CreateSchool registers a new tenant.
func (s *SchoolService) CreateSchool(ctx context.Context, name string) (*domain.School, error) {
	school := &domain.School{Name: name}
	if err := s.schools.Create(ctx, school); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("School name already registered", http.StatusConflict, nil)
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSchoolCreated,
			SubjectID: school.ID,
			Timestamp: time.Now(),
			Payload:   events.SchoolCreatedPayload{Name: school.Name},
		})
	}
	return school, nil
}

// GetSchool returns a school and its branches, loaded with an explicit query
// rather than relation traversal.
func (s *SchoolService) GetSchool(ctx context.Context, id int64) (*SchoolWithBranches, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("School", nil)
		}
		return nil, err
	}

	branches, err := s.branches.ListBySchool(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SchoolWithBranches{School: *school, Branches: branches}, nil
}

// ListSchools pages through schools, each with its branch list.
func (s *SchoolService) ListSchools(ctx context.Context, limit, offset int) ([]SchoolWithBranches, error) {
	schools, err := s.schools.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]SchoolWithBranches, 0, len(schools))
	for _, school := range schools {
		branches, err := s.branches.ListBySchool(ctx, school.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, SchoolWithBranches{School: school, Branches: branches})
	}
	return result, nil
}

// CreateBranch adds a branch under an existing school; a missing parent is a
// not-found error and no branch row is created.
func (s *SchoolService) CreateBranch(ctx context.Context, schoolID int64, name string) (*domain.Branch, error) {
	if _, err := s.schools.GetByID(ctx, schoolID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("School", nil)
		}
		return nil, err
	}

	branch := &domain.Branch{Name: name, SchoolID: schoolID}
	if err := s.branches.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}
