package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/edu-platform/internal/api/dto"
	authpkg "github.com/spec-kit/edu-platform/internal/auth"
	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/service"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Create handles POST /users/.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, err := h.users.Register(c.Context(), req.Email, req.Password, req.FullName, req.PhoneNumber)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user, nil))
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	assignments, err := h.users.Assignments(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user, assignments))
}

// UpdateMe handles PUT /users/me. Absent fields are left untouched.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.users.UpdateProfile(c.Context(), user, service.UserUpdateInput{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	assignments, err := h.users.Assignments(c.Context(), updated.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(updated, assignments))
}

// Children handles GET /users/me/children.
func (h *UsersHandler) Children(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	children, err := h.users.Children(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(children))
}

// Parents handles GET /users/me/parents.
func (h *UsersHandler) Parents(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	parents, err := h.users.Parents(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(parents))
}

// LinkChild handles POST /users/me/children/:childID.
func (h *UsersHandler) LinkChild(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	childID, err := strconv.ParseInt(c.Params("childID"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid child id", nil)
	}

	if err := h.users.LinkChild(c.Context(), user.ID, childID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"parent_user_id": user.ID,
		"child_user_id":  childID,
	})
}

// CreateProfile handles POST /users/me/profiles.
func (h *UsersHandler) CreateProfile(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	var req dto.ProfileCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	kind := domain.ProfileKind(req.Type)
	if err := h.users.CreateProfile(c.Context(), user.ID, kind); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"type": string(kind)})
}
