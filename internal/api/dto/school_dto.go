package dto

import (
	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/service"
)

// SchoolCreateRequest payload for new schools.
type SchoolCreateRequest struct {
	Name string `json:"name"`
}

// BranchCreateRequest payload for new branches.
type BranchCreateRequest struct {
	Name string `json:"name"`
}

// BranchResponse is the public branch representation.
type BranchResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SchoolID int64  `json:"school_id"`
}

// SchoolResponse is the public school representation with its branches.
type SchoolResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Branches []BranchResponse `json:"branches"`
}

// NewBranchResponse maps a domain branch.
func NewBranchResponse(branch *domain.Branch) BranchResponse {
	return BranchResponse{ID: branch.ID, Name: branch.Name, SchoolID: branch.SchoolID}
}

// NewSchoolResponse maps a school with its branch list.
func NewSchoolResponse(school *service.SchoolWithBranches) SchoolResponse {
	out := SchoolResponse{
		ID:       school.School.ID,
		Name:     school.School.Name,
		Branches: make([]BranchResponse, 0, len(school.Branches)),
	}
	for i := range school.Branches {
		out.Branches = append(out.Branches, NewBranchResponse(&school.Branches[i]))
	}
	return out
}
