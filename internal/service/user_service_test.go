package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/repository/repositorytest"
	"github.com/spec-kit/edu-platform/internal/service"
	apperrors "github.com/spec-kit/edu-platform/pkg/util"
)

func strPtr(s string) *string { return &s }

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	original, err := userService.Register(ctx, "duplicate@example.com", "password123", strPtr("First"), nil)
	require.NoError(t, err)

	_, err = userService.Register(ctx, "duplicate@example.com", "password456", nil, nil)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "Email already registered", domainErr.Message)

	// the original record is unmodified
	kept, err := userService.GetByEmail(ctx, "duplicate@example.com")
	require.NoError(t, err)
	assert.Equal(t, original.ID, kept.ID)
	assert.Equal(t, "First", *kept.FullName)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	_, err := userService.Register(ctx, "one@example.com", "p", nil, strPtr("+100"))
	require.NoError(t, err)

	_, err = userService.Register(ctx, "two@example.com", "p", nil, strPtr("+100"))
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "Phone number already registered", domainErr.Message)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	user, err := userService.Register(ctx, "a@x.com", "p", strPtr("Original Name"), strPtr("+111"))
	require.NoError(t, err)

	updated, err := userService.UpdateProfile(ctx, user, service.UserUpdateInput{
		FullName: strPtr("New Name"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", *updated.FullName)
	require.NotNil(t, updated.PhoneNumber)
	assert.Equal(t, "+111", *updated.PhoneNumber)
}

func TestUpdateProfileEmptyInputIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	user, err := userService.Register(ctx, "a@x.com", "p", strPtr("Name"), strPtr("+111"))
	require.NoError(t, err)

	updated, err := userService.UpdateProfile(ctx, user, service.UserUpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, "Name", *updated.FullName)
	assert.Equal(t, "+111", *updated.PhoneNumber)
}

func TestLinkChildAndQueries(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	parent, err := userService.Register(ctx, "parent@x.com", "p", nil, nil)
	require.NoError(t, err)
	child, err := userService.Register(ctx, "child@x.com", "p", nil, nil)
	require.NoError(t, err)

	require.NoError(t, userService.LinkChild(ctx, parent.ID, child.ID))

	children, err := userService.Children(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "child@x.com", children[0].Email)

	parents, err := userService.Parents(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "parent@x.com", parents[0].Email)
}

func TestLinkChildMissingUser(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	parent, err := userService.Register(ctx, "parent@x.com", "p", nil, nil)
	require.NoError(t, err)

	err = userService.LinkChild(ctx, parent.ID, 999)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestLinkChildSelf(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	parent, err := userService.Register(ctx, "parent@x.com", "p", nil, nil)
	require.NoError(t, err)

	err = userService.LinkChild(ctx, parent.ID, parent.ID)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestProfilesAreNotExclusive(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	user, err := userService.Register(ctx, "a@x.com", "p", nil, nil)
	require.NoError(t, err)

	require.NoError(t, userService.CreateProfile(ctx, user.ID, domain.ProfileStudent))
	require.NoError(t, userService.CreateProfile(ctx, user.ID, domain.ProfileParent))

	kinds, err := userService.Profiles(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ProfileKind{domain.ProfileStudent, domain.ProfileParent}, kinds)
}

func TestCreateProfileDuplicateKind(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	user, err := userService.Register(ctx, "a@x.com", "p", nil, nil)
	require.NoError(t, err)

	require.NoError(t, userService.CreateProfile(ctx, user.ID, domain.ProfileStudent))
	err = userService.CreateProfile(ctx, user.ID, domain.ProfileStudent)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestCreateProfileUnknownKind(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	_, userService := newTestServices(store)

	user, err := userService.Register(ctx, "a@x.com", "p", nil, nil)
	require.NoError(t, err)

	err = userService.CreateProfile(ctx, user.ID, domain.ProfileKind("WIZARD"))
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewMemoryStore()
	authService, userService := newTestServices(store)

	user, err := userService.Register(ctx, "a@x.com", "old_password", nil, nil)
	require.NoError(t, err)

	err = userService.ChangePassword(ctx, user, "wrong", "new_password")
	require.Error(t, err)

	require.NoError(t, userService.ChangePassword(ctx, user, "old_password", "new_password"))

	_, _, err = authService.Login(ctx, "a@x.com", "old_password")
	require.Error(t, err)
	_, _, err = authService.Login(ctx, "a@x.com", "new_password")
	assert.NoError(t, err)
}
