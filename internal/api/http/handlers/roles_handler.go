package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/edu-platform/internal/api/dto"
	"github.com/spec-kit/edu-platform/internal/service"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// RolesHandler exposes role, permission, and assignment endpoints.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roleService *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roleService}
}

// Create handles POST /roles/.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.RoleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	role, err := h.roles.CreateRole(c.Context(), req.Name, req.SchoolID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRoleResponse(role))
}

// List handles GET /roles/.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	roles, err := h.roles.ListRoles(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	out := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, dto.NewRoleResponse(&roles[i]))
	}
	return c.JSON(out)
}

// Get handles GET /roles/:id.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid role id", nil)
	}

	role, err := h.roles.GetRole(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoleWithPermissionsResponse(role))
}

// Assign handles POST /roles/assign.
func (h *RolesHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == 0 || req.RoleID == 0 || req.BranchID == 0 {
		return apperrors.NewValidationError("user_id, role_id, branch_id required", nil)
	}

	assignment, err := h.roles.AssignRole(c.Context(), req.UserID, req.RoleID, req.BranchID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAssignmentResponse(assignment))
}

// ListPermissions handles GET /permissions/.
func (h *RolesHandler) ListPermissions(c *fiber.Ctx) error {
	perms, err := h.roles.ListPermissions(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, dto.PermissionResponse{ID: p.ID, Name: p.Name})
	}
	return c.JSON(out)
}
