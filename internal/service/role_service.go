package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/events"
	"github.com/spec-kit/edu-platform/internal/repository"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// RoleService coordinates role creation and branch-scoped assignment.
type RoleService struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	assignments repository.AssignmentRepository
	dispatcher  events.Dispatcher
}

// RoleDependencies bundles repo requirements for the role service.
type RoleDependencies struct {
	RoleRepo       repository.RoleRepository
	PermissionRepo repository.PermissionRepository
	AssignmentRepo repository.AssignmentRepository
	Dispatcher     events.Dispatcher
}

// NewRoleService builds the service.
func NewRoleService(deps RoleDependencies) *RoleService {
	return &RoleService{
		roles:       deps.RoleRepo,
		permissions: deps.PermissionRepo,
		assignments: deps.AssignmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// RoleWithPermissions pairs a role with its granted permissions.
type RoleWithPermissions struct {
	Role        domain.Role
	Permissions []domain.Permission
}

// CreateRole records a role. A nil schoolID makes a platform-wide template
// role. The school reference is not pre-validated; a dangling reference fails
// at the storage layer and surfaces as a translated constraint error.
func (s *RoleService) CreateRole(ctx context.Context, name string, schoolID *int64) (*domain.Role, error) {
	role := &domain.Role{Name: name, SchoolID: schoolID}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRole returns a role and its permission grants.
func (s *RoleService) GetRole(ctx context.Context, id int64) (*RoleWithPermissions, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Role", nil)
		}
		return nil, err
	}

	perms, err := s.roles.ListPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoleWithPermissions{Role: *role, Permissions: perms}, nil
}

// ListRoles pages through roles.
func (s *RoleService) ListRoles(ctx context.Context, limit, offset int) ([]domain.Role, error) {
	return s.roles.List(ctx, limit, offset)
}

// ListPermissions returns the seeded permission catalog.
func (s *RoleService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.permissions.List(ctx)
}

// AssignRole grants a role to a user at a branch. Duplicate tuples are not
// deduplicated; each call creates a distinct assignment row. Dangling
// references fail at the storage layer.
func (s *RoleService) AssignRole(ctx context.Context, userID, roleID, branchID int64) (*domain.UserRoleAssignment, error) {
	assignment := &domain.UserRoleAssignment{
		UserID:   userID,
		RoleID:   roleID,
		BranchID: branchID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRoleAssigned,
			SubjectID: userID,
			Timestamp: time.Now(),
			Payload:   events.RoleAssignedPayload{RoleID: roleID, BranchID: branchID},
		})
	}
	return assignment, nil
}
