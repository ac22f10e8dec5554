package dto

import "github.com/spec-kit/edu-platform/internal/domain"

// UserCreateRequest payload for new accounts.
type UserCreateRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
}

// UserUpdateRequest carries a partial update; absent fields stay untouched.
type UserUpdateRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
}

// ProfileCreateRequest payload for attaching a specialization profile.
type ProfileCreateRequest struct {
	Type string `json:"type"`
}

// UserResponse is the public account representation. It never carries the
// password hash.
type UserResponse struct {
	ID              int64                `json:"id"`
	Email           string               `json:"email"`
	FullName        *string              `json:"full_name"`
	PhoneNumber     *string              `json:"phone_number"`
	IsActive        bool                 `json:"is_active"`
	RoleAssignments []AssignmentResponse `json:"role_assignments"`
}

// NewUserResponse maps a domain user and its assignments to the public shape.
func NewUserResponse(user *domain.User, assignments []domain.UserRoleAssignment) UserResponse {
	out := UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		PhoneNumber:     user.PhoneNumber,
		IsActive:        user.IsActive,
		RoleAssignments: make([]AssignmentResponse, 0, len(assignments)),
	}
	for _, a := range assignments {
		out.RoleAssignments = append(out.RoleAssignments, NewAssignmentResponse(&a))
	}
	return out
}

// NewUserListResponse maps users without loading their assignments.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i], nil))
	}
	return out
}
