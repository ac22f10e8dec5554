package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/edu-platform/internal/api/dto"
	authpkg "github.com/spec-kit/edu-platform/internal/auth"
	"github.com/spec-kit/edu-platform/internal/service"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// AuthHandler exposes the login and password endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService}
}

// Token handles POST /token. The body is form-encoded with username (the
// email) and password, mirroring the OAuth2 password flow.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, _, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// ChangePassword handles POST /users/me/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := authpkg.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Could not validate credentials")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	if err := h.users.ChangePassword(c.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
