package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/edu-platform/internal/auth"
	"github.com/spec-kit/edu-platform/internal/config"
	"github.com/spec-kit/edu-platform/internal/repository"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// AuthService coordinates the login flow.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service with the injected signing configuration.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// Login authenticates by email and password and issues a bearer token whose
// subject is the email. An unknown email and a wrong password produce the
// identical error so the response never reveals which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("Incorrect email or password")
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.HashedPassword, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("Incorrect email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Email)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
