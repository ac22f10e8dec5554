// Package repositorytest provides in-memory implementations of the
// repository interfaces for tests. The fakes emulate the storage layer's
// constraint behavior: unique violations and dangling foreign keys surface as
// *pgconn.PgError values with the matching SQLSTATE codes, and missing rows
// as pgx.ErrNoRows, so error translation paths behave as they do against
// Postgres.
package repositorytest

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/edu-platform/internal/domain"
	"github.com/spec-kit/edu-platform/internal/repository"
)

// MemoryStore holds all entity tables behind one mutex.
type MemoryStore struct {
	mu sync.Mutex

	users       map[int64]domain.User
	schools     map[int64]domain.School
	branches    map[int64]domain.Branch
	roles       map[int64]domain.Role
	permissions map[int64]domain.Permission
	assignments map[int64]domain.UserRoleAssignment
	rolePerms   map[int64][]int64
	profiles    map[domain.ProfileKind]map[int64]bool
	links       map[[2]int64]bool

	nextID int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]domain.User),
		schools:     make(map[int64]domain.School),
		branches:    make(map[int64]domain.Branch),
		roles:       make(map[int64]domain.Role),
		permissions: make(map[int64]domain.Permission),
		assignments: make(map[int64]domain.UserRoleAssignment),
		rolePerms:   make(map[int64][]int64),
		profiles: map[domain.ProfileKind]map[int64]bool{
			domain.ProfileStudent: {},
			domain.ProfileTeacher: {},
			domain.ProfileParent:  {},
		},
		links: make(map[[2]int64]bool),
	}
}

func (s *MemoryStore) next() int64 {
	s.nextID++
	return s.nextID
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

// SeedAccessModel inserts the permissions, template roles, and grants that
// the SQL migrations seed.
func (s *MemoryStore) SeedAccessModel() {
	ctx := context.Background()
	roles := s.Roles()

	permIDs := make(map[string]int64)
	for _, name := range []string{"system:admin", "schools:manage", "users:manage", "roles:manage"} {
		s.mu.Lock()
		id := s.next()
		s.permissions[id] = domain.Permission{ID: id, Name: name}
		s.mu.Unlock()
		permIDs[name] = id
	}

	roleIDs := make(map[string]int64)
	for _, name := range []string{"PLATFORM_ADMIN", "SCHOOL_ADMIN", "TEACHER", "STUDENT", "PARENT"} {
		role := domain.Role{Name: name}
		_ = roles.Create(ctx, &role)
		roleIDs[name] = role.ID
	}

	for _, perm := range []string{"system:admin", "schools:manage", "users:manage", "roles:manage"} {
		_ = roles.GrantPermission(ctx, roleIDs["PLATFORM_ADMIN"], permIDs[perm])
	}
	for _, perm := range []string{"users:manage", "roles:manage"} {
		_ = roles.GrantPermission(ctx, roleIDs["SCHOOL_ADMIN"], permIDs[perm])
	}
}

// Users returns the in-memory UserRepository.
func (s *MemoryStore) Users() repository.UserRepository { return &memoryUsers{s} }

// Schools returns the in-memory SchoolRepository.
func (s *MemoryStore) Schools() repository.SchoolRepository { return &memorySchools{s} }

// Branches returns the in-memory BranchRepository.
func (s *MemoryStore) Branches() repository.BranchRepository { return &memoryBranches{s} }

// Roles returns the in-memory RoleRepository.
func (s *MemoryStore) Roles() repository.RoleRepository { return &memoryRoles{s} }

// Permissions returns the in-memory PermissionRepository.
func (s *MemoryStore) Permissions() repository.PermissionRepository { return &memoryPermissions{s} }

// Assignments returns the in-memory AssignmentRepository.
func (s *MemoryStore) Assignments() repository.AssignmentRepository { return &memoryAssignments{s} }

// Profiles returns the in-memory ProfileRepository.
func (s *MemoryStore) Profiles() repository.ProfileRepository { return &memoryProfiles{s} }

type memoryUsers struct{ s *MemoryStore }

func (r *memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
		if user.PhoneNumber != nil && existing.PhoneNumber != nil && *existing.PhoneNumber == *user.PhoneNumber {
			return uniqueViolation("users_phone_number_key")
		}
	}
	user.ID = r.s.next()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.s.users {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
		if user.PhoneNumber != nil && existing.PhoneNumber != nil && *existing.PhoneNumber == *user.PhoneNumber {
			return uniqueViolation("users_phone_number_key")
		}
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUsers) LinkChild(_ context.Context, parentID, childID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{parentID, childID}
	if r.s.links[key] {
		return uniqueViolation("parent_child_links_pkey")
	}
	if _, ok := r.s.users[parentID]; !ok {
		return fkViolation("parent_child_links_parent_user_id_fkey")
	}
	if _, ok := r.s.users[childID]; !ok {
		return fkViolation("parent_child_links_child_user_id_fkey")
	}
	r.s.links[key] = true
	return nil
}

func (r *memoryUsers) ListChildren(_ context.Context, parentID int64) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.User
	for key := range r.s.links {
		if key[0] == parentID {
			out = append(out, r.s.users[key[1]])
		}
	}
	return out, nil
}

func (r *memoryUsers) ListParents(_ context.Context, childID int64) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.User
	for key := range r.s.links {
		if key[1] == childID {
			out = append(out, r.s.users[key[0]])
		}
	}
	return out, nil
}

type memorySchools struct{ s *MemoryStore }

func (r *memorySchools) Create(_ context.Context, school *domain.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.schools {
		if existing.Name == school.Name {
			return uniqueViolation("schools_name_key")
		}
	}
	school.ID = r.s.next()
	school.CreatedAt = time.Now()
	r.s.schools[school.ID] = *school
	return nil
}

func (r *memorySchools) GetByID(_ context.Context, id int64) (*domain.School, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	school, ok := r.s.schools[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &school, nil
}

func (r *memorySchools) List(_ context.Context, limit, offset int) ([]domain.School, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var out []domain.School
	for id := int64(1); id <= r.s.nextID; id++ {
		if school, ok := r.s.schools[id]; ok {
			out = append(out, school)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryBranches struct{ s *MemoryStore }

func (r *memoryBranches) Create(_ context.Context, branch *domain.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schools[branch.SchoolID]; !ok {
		return fkViolation("branches_school_id_fkey")
	}
	branch.ID = r.s.next()
	branch.CreatedAt = time.Now()
	r.s.branches[branch.ID] = *branch
	return nil
}

func (r *memoryBranches) GetByID(_ context.Context, id int64) (*domain.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	branch, ok := r.s.branches[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &branch, nil
}

func (r *memoryBranches) ListBySchool(_ context.Context, schoolID int64) ([]domain.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Branch
	for id := int64(1); id <= r.s.nextID; id++ {
		if branch, ok := r.s.branches[id]; ok && branch.SchoolID == schoolID {
			out = append(out, branch)
		}
	}
	return out, nil
}

type memoryRoles struct{ s *MemoryStore }

func (r *memoryRoles) Create(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if role.SchoolID != nil {
		if _, ok := r.s.schools[*role.SchoolID]; !ok {
			return fkViolation("roles_school_id_fkey")
		}
	}
	role.ID = r.s.next()
	r.s.roles[role.ID] = *role
	return nil
}

func (r *memoryRoles) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r *memoryRoles) List(_ context.Context, limit, offset int) ([]domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var out []domain.Role
	for id := int64(1); id <= r.s.nextID; id++ {
		if role, ok := r.s.roles[id]; ok {
			out = append(out, role)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRoles) GrantPermission(_ context.Context, roleID, permissionID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.rolePerms[roleID] {
		if existing == permissionID {
			return nil
		}
	}
	r.s.rolePerms[roleID] = append(r.s.rolePerms[roleID], permissionID)
	return nil
}

func (r *memoryRoles) ListPermissions(_ context.Context, roleID int64) ([]domain.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Permission
	for _, permID := range r.s.rolePerms[roleID] {
		out = append(out, r.s.permissions[permID])
	}
	return out, nil
}

type memoryPermissions struct{ s *MemoryStore }

func (r *memoryPermissions) List(_ context.Context) ([]domain.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Permission
	for id := int64(1); id <= r.s.nextID; id++ {
		if perm, ok := r.s.permissions[id]; ok {
			out = append(out, perm)
		}
	}
	return out, nil
}

func (r *memoryPermissions) GetByName(_ context.Context, name string) (*domain.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, perm := range r.s.permissions {
		if perm.Name == name {
			p := perm
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryAssignments struct{ s *MemoryStore }

func (r *memoryAssignments) Create(_ context.Context, assignment *domain.UserRoleAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[assignment.UserID]; !ok {
		return fkViolation("user_role_assignments_user_id_fkey")
	}
	if _, ok := r.s.roles[assignment.RoleID]; !ok {
		return fkViolation("user_role_assignments_role_id_fkey")
	}
	if _, ok := r.s.branches[assignment.BranchID]; !ok {
		return fkViolation("user_role_assignments_branch_id_fkey")
	}
	assignment.ID = r.s.next()
	r.s.assignments[assignment.ID] = *assignment
	return nil
}

func (r *memoryAssignments) ListByUser(_ context.Context, userID int64) ([]domain.UserRoleAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.UserRoleAssignment
	for id := int64(1); id <= r.s.nextID; id++ {
		if a, ok := r.s.assignments[id]; ok && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memoryProfiles struct{ s *MemoryStore }

func (r *memoryProfiles) Create(_ context.Context, userID int64, kind domain.ProfileKind) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	table, ok := r.s.profiles[kind]
	if !ok {
		return fkViolation("unknown_profile_kind")
	}
	if table[userID] {
		return uniqueViolation("profiles_pkey")
	}
	if _, exists := r.s.users[userID]; !exists {
		return fkViolation("profiles_user_id_fkey")
	}
	table[userID] = true
	return nil
}

func (r *memoryProfiles) ListKindsByUser(_ context.Context, userID int64) ([]domain.ProfileKind, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ProfileKind
	for _, kind := range []domain.ProfileKind{domain.ProfileStudent, domain.ProfileTeacher, domain.ProfileParent} {
		if r.s.profiles[kind][userID] {
			out = append(out, kind)
		}
	}
	return out, nil
}
