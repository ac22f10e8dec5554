package dto

import (
	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/service"
)

// RoleCreateRequest payload for new roles. A nil school_id creates a
// platform-wide template role.
type RoleCreateRequest struct {
	Name     string `json:"name"`
	SchoolID *int64 `json:"school_id"`
}

// AssignmentCreateRequest payload for granting a role at a branch.
type AssignmentCreateRequest struct {
	UserID   int64 `json:"user_id"`
	RoleID   int64 `json:"role_id"`
	BranchID int64 `json:"branch_id"`
}

// RoleResponse is the public role representation.
type RoleResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	SchoolID    *int64               `json:"school_id"`
	Permissions []PermissionResponse `json:"permissions,omitempty"`
}

// PermissionResponse is the public permission representation.
type PermissionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AssignmentResponse is the public assignment representation.
type AssignmentResponse struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"user_id"`
	RoleID   int64 `json:"role_id"`
	BranchID int64 `json:"branch_id"`
}

// NewRoleResponse maps a domain role.
func NewRoleResponse(role *domain.Role) RoleResponse {
	return RoleResponse{ID: role.ID, Name: role.Name, SchoolID: role.SchoolID}
}

// NewRoleWithPermissionsResponse maps a role with its grants.
func NewRoleWithPermissionsResponse(role *service.RoleWithPermissions) RoleResponse {
	out := NewRoleResponse(&role.Role)
	out.Permissions = make([]PermissionResponse, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		out.Permissions = append(out.Permissions, PermissionResponse{ID: p.ID, Name: p.Name})
	}
	return out
}

// NewAssignmentResponse maps a domain assignment.
func NewAssignmentResponse(a *domain.UserRoleAssignment) AssignmentResponse {
	return AssignmentResponse{ID: a.ID, UserID: a.UserID, RoleID: a.RoleID, BranchID: a.BranchID}
}
