package domain

// Permission is a granular capability string, e.g. "users:manage".
type Permission struct {
	ID   int64
	Name string
}

// Role bundles permissions under a name. A nil SchoolID marks a platform-wide
// template role; a set SchoolID scopes the role to one school. The scoping
// rule (a school role is meaningful only within that school's branches) is an
// application-level convention, not a storage constraint.
type Role struct {
	ID       int64
	Name     string
	SchoolID *int64
}

// UserRoleAssignment grants one role to one user at one branch. The table has
// no composite uniqueness, so assigning the same tuple twice yields two rows.
type UserRoleAssignment struct {
	ID       int64
	UserID   int64
	RoleID   int64
	BranchID int64
}
