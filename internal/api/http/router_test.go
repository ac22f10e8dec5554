package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/edu-platform/internal/api/http"
	"github.com/spec-kit/edu-platform/internal/api/http/handlers"
	"github.com/spec-kit/edu-platform/internal/auth"
	"github.com/spec-kit/edu-platform/internal/config"
	"github.com/spec-kit/edu-platform/internal/events"
	"github.com/spec-kit/edu-platform/internal/observability"
	"github.com/spec-kit/edu-platform/internal/persistence"
	"github.com/spec-kit/edu-platform/internal/repository/repositorytest"
	"github.com/spec-kit/edu-platform/internal/service"
)

func newTestApp(t *testing.T) (*fiber.App, *repositorytest.MemoryStore) {
	t.Helper()

	store := repositorytest.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()

	authCfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}

	authService := service.NewAuthService(authCfg, store.Users())
	userService := service.NewUserService(authCfg.BcryptCost, service.UserDependencies{
		UserRepo:       store.Users(),
		AssignmentRepo: store.Assignments(),
		ProfileRepo:    store.Profiles(),
		Dispatcher:     dispatcher,
	})
	schoolService := service.NewSchoolService(store.Schools(), store.Branches(), dispatcher)
	roleService := service.NewRoleService(service.RoleDependencies{
		RoleRepo:       store.Roles(),
		PermissionRepo: store.Permissions(),
		AssignmentRepo: store.Assignments(),
		Dispatcher:     dispatcher,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Root:           handlers.NewRootHandler(),
		Health:         handlers.NewHealthHandler("edu-platform", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService, userService),
		Users:          handlers.NewUsersHandler(userService),
		Schools:        handlers.NewSchoolsHandler(schoolService),
		Roles:          handlers.NewRolesHandler(roleService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users()),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func login(t *testing.T, app *fiber.App, email, password string) (*http.Response, map[string]any) {
	t.Helper()

	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func errorMessage(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	msg, _ := errObj["message"].(string)
	return msg
}

func TestWelcome(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome to the Education Platform API", body["message"])
}

func TestRegisterLoginMeFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email":    "a@x.com",
		"password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotZero(t, body["id"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, true, body["is_active"])
	_, leaked := body["hashed_password"]
	assert.False(t, leaked)

	resp, tokenBody := login(t, app, "a@x.com", "p")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", tokenBody["token_type"])
	token, _ := tokenBody["access_token"].(string)
	require.NotEmpty(t, token)

	resp, me := doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, body["id"], me["id"])
	assert.Equal(t, "a@x.com", me["email"])
}

func TestLoginFailures(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email":    "wrong_pass@example.com",
		"password": "correct_password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := login(t, app, "wrong_pass@example.com", "wrong_password")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Incorrect email or password", errorMessage(body))

	resp, body = login(t, app, "nosuchuser@example.com", "any_password")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Incorrect email or password", errorMessage(body))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "duplicate@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "duplicate@example.com", "password": "password456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", errorMessage(body))
}

func TestUpdateMePartial(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "a@x.com", "password": "p", "full_name": "Original", "phone_number": "+111",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, tokenBody := login(t, app, "a@x.com", "p")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := tokenBody["access_token"].(string)

	resp, body := doJSON(t, app, http.MethodPut, "/users/me", token, map[string]any{
		"full_name": "Updated",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Updated", body["full_name"])
	assert.Equal(t, "+111", body["phone_number"])

	// empty body is a no-op
	resp, body = doJSON(t, app, http.MethodPut, "/users/me", token, map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Updated", body["full_name"])
	assert.Equal(t, "+111", body["phone_number"])
}

func TestMeRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSchoolBranchFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp, school := doJSON(t, app, http.MethodPost, "/schools/", "", map[string]any{"name": "X"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	schoolID := int64(school["id"].(float64))

	resp, branch := doJSON(t, app, http.MethodPost, fmt.Sprintf("/schools/%d/branches/", schoolID), "", map[string]any{"name": "Main"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(schoolID), branch["school_id"])

	resp, got := doJSON(t, app, http.MethodGet, fmt.Sprintf("/schools/%d", schoolID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	branches := got["branches"].([]any)
	require.Len(t, branches, 1)
	assert.Equal(t, "Main", branches[0].(map[string]any)["name"])
}

func TestCreateBranchMissingSchool(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/schools/999/branches/", "", map[string]any{"name": "Main"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "School not found", errorMessage(body))
}

func TestGetSchoolMissing(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/schools/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSchools(t *testing.T) {
	app, _ := newTestApp(t)

	for _, name := range []string{"A", "B"} {
		resp, _ := doJSON(t, app, http.MethodPost, "/schools/", "", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/schools/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var schools []map[string]any
	require.NoError(t, json.Unmarshal(raw, &schools))
	assert.Len(t, schools, 2)
}

func TestRoleEndpointsRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/roles/", "", map[string]any{"name": "LIBRARIAN"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/roles/assign", "", map[string]any{
		"user_id": 1, "role_id": 1, "branch_id": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleAssignmentFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp, user := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "admin@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userID := user["id"].(float64)

	resp, tokenBody := login(t, app, "admin@x.com", "p")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := tokenBody["access_token"].(string)

	resp, school := doJSON(t, app, http.MethodPost, "/schools/", "", map[string]any{"name": "X"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	schoolID := school["id"].(float64)

	resp, branch := doJSON(t, app, http.MethodPost, fmt.Sprintf("/schools/%d/branches/", int64(schoolID)), "", map[string]any{"name": "Main"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	branchID := branch["id"].(float64)

	resp, role := doJSON(t, app, http.MethodPost, "/roles/", token, map[string]any{"name": "TEACHER"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Nil(t, role["school_id"])
	roleID := role["id"].(float64)

	assign := map[string]any{"user_id": userID, "role_id": roleID, "branch_id": branchID}
	resp, first := doJSON(t, app, http.MethodPost, "/roles/assign", token, assign)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// assigning the same tuple again creates a second, distinct row
	resp, second := doJSON(t, app, http.MethodPost, "/roles/assign", token, assign)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEqual(t, first["id"], second["id"])

	resp, me := doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assignments := me["role_assignments"].([]any)
	assert.Len(t, assignments, 2)
}

func TestAssignRoleDanglingReferences(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "a@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, tokenBody := login(t, app, "a@x.com", "p")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := tokenBody["access_token"].(string)

	resp, _ = doJSON(t, app, http.MethodPost, "/roles/assign", token, map[string]any{
		"user_id": 999, "role_id": 999, "branch_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParentChildEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "parent@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, child := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "child@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	childID := int64(child["id"].(float64))

	resp, tokenBody := login(t, app, "parent@x.com", "p")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := tokenBody["access_token"].(string)

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/users/me/children/%d", childID), token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := app.Test(authedRequest(http.MethodGet, "/users/me/children", token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var children []map[string]any
	require.NoError(t, json.Unmarshal(raw, &children))
	require.Len(t, children, 1)
	assert.Equal(t, "child@x.com", children[0]["email"])
}

func TestPermissionsEndpoint(t *testing.T) {
	app, store := newTestApp(t)
	store.SeedAccessModel()

	resp, _ := doJSON(t, app, http.MethodPost, "/users/", "", map[string]any{
		"email": "a@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, tokenBody := login(t, app, "a@x.com", "p")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := tokenBody["access_token"].(string)

	resp, err := app.Test(authedRequest(http.MethodGet, "/permissions/", token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var perms []map[string]any
	require.NoError(t, json.Unmarshal(raw, &perms))
	assert.Len(t, perms, 4)
}

func authedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
