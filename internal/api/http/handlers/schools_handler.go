package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/edu-platform/internal/api/dto"
	"github.com/spec-kit/edu-platform/internal/service"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// SchoolsHandler exposes school and branch endpoints.
type SchoolsHandler struct {
	schools *service.SchoolService
}

// NewSchoolsHandler constructs handler.
func NewSchoolsHandler(schoolService *service.SchoolService) *SchoolsHandler {
	return &SchoolsHandler{schools: schoolService}
}

// Create handles POST /schools/.
func (h *SchoolsHandler) Create(c *fiber.Ctx) error {
	var req dto.SchoolCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	school, err := h.schools.CreateSchool(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewSchoolResponse(&service.SchoolWithBranches{School: *school}))
}

// List handles GET /schools/.
func (h *SchoolsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	schools, err := h.schools.ListSchools(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	out := make([]dto.SchoolResponse, 0, len(schools))
	for i := range schools {
		out = append(out, dto.NewSchoolResponse(&schools[i]))
	}
	return c.JSON(out)
}

// Get handles GET /schools/:id.
func (h *SchoolsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid school id", nil)
	}

	school, err := h.schools.GetSchool(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSchoolResponse(school))
}

// CreateBranch handles POST /schools/:id/branches/.
func (h *SchoolsHandler) CreateBranch(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid school id", nil)
	}

	var req dto.BranchCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	branch, err := h.schools.CreateBranch(c.Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewBranchResponse(branch))
}
