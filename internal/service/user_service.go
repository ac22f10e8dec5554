package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/edu-platform/internal/auth"
	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/events"
	"github.com/spec-kit/edu-platform/internal/repository"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

// UserService coordinates account registration and profile management.
type UserService struct {
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	profiles    repository.ProfileRepository
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// UserDependencies bundles repo requirements for the user service.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	AssignmentRepo repository.AssignmentRepository
	ProfileRepo    repository.ProfileRepository
	Dispatcher     events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(bcryptCost int, deps UserDependencies) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		assignments: deps.AssignmentRepo,
		profiles:    deps.ProfileRepo,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  bcryptCost,
	}
}

// UserUpdateInput carries a partial update; nil fields are left untouched.
type UserUpdateInput struct {
	FullName    *string
	PhoneNumber *string
}

// Register creates a new account. The insert is atomic: uniqueness is left to
// the storage constraint and the resulting violation is translated into a
// conflict, so there is no check-then-insert race.
func (s *UserService) Register(ctx context.Context, email, password string, fullName, phone *string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		PhoneNumber:    phone,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateUserUniqueViolation(err, http.StatusBadRequest)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			SubjectID: user.ID,
			Timestamp: time.Now(),
			Payload:   events.UserRegisteredPayload{Email: user.Email},
		})
	}
	return user, nil
}

// UpdateProfile applies only the supplied fields; omitted fields keep their
// prior values, so an empty input is a no-op.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, input UserUpdateInput) (*domain.User, error) {
	if input.FullName != nil {
		user.FullName = input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateUserUniqueViolation(err, http.StatusConflict)
	}
	return user, nil
}

// GetByEmail fetches an account by its identity key.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}
	return user, nil
}

// Assignments lists the branch-scoped role grants held by a user.
func (s *UserService) Assignments(ctx context.Context, userID int64) ([]domain.UserRoleAssignment, error) {
	return s.assignments.ListByUser(ctx, userID)
}

// LinkChild records a parent/child relation between two existing accounts.
func (s *UserService) LinkChild(ctx context.Context, parentID, childID int64) error {
	if parentID == childID {
		return apperrors.NewValidationError("cannot link an account to itself", nil)
	}
	if _, err := s.users.GetByID(ctx, childID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User", nil)
		}
		return err
	}
	if err := s.users.LinkChild(ctx, parentID, childID); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewConflict("Link already exists", http.StatusConflict, nil)
		}
		return err
	}
	return nil
}

// Children lists the accounts linked as children of the given parent.
func (s *UserService) Children(ctx context.Context, parentID int64) ([]domain.User, error) {
	return s.users.ListChildren(ctx, parentID)
}

// Parents lists the accounts linked as parents of the given child.
func (s *UserService) Parents(ctx context.Context, childID int64) ([]domain.User, error) {
	return s.users.ListParents(ctx, childID)
}

// CreateProfile attaches a specialization row to the user. Kinds are not
// mutually exclusive; creating the same kind twice is a conflict.
func (s *UserService) CreateProfile(ctx context.Context, userID int64, kind domain.ProfileKind) error {
	if !domain.ValidProfileKind(kind) {
		return apperrors.NewValidationError("unknown profile type", map[string]any{"type": string(kind)})
	}
	if err := s.profiles.Create(ctx, userID, kind); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewConflict("Profile already exists", http.StatusConflict, nil)
		}
		return err
	}
	return nil
}

// Profiles lists the specialization kinds held by a user.
func (s *UserService) Profiles(ctx context.Context, userID int64) ([]domain.ProfileKind, error) {
	return s.profiles.ListKindsByUser(ctx, userID)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if err := auth.ComparePassword(user.HashedPassword, currentPassword); err != nil {
		return apperrors.NewUnauthorized("Incorrect email or password")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	return s.users.Update(ctx, user)
}

// translateUserUniqueViolation maps a users-table unique violation onto the
// public conflict messages. The email conflict keeps its documented 400
// status; other callers pass 409.
func translateUserUniqueViolation(err error, emailStatus int) error {
	if !apperrors.IsUniqueViolation(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "phone") {
		return apperrors.NewConflict("Phone number already registered", http.StatusConflict, nil)
	}
	return apperrors.NewConflict("Email already registered", emailStatus, nil)
}
