package domain

import "time"

// User is the domain model for platform accounts. A single account may act as
// student, teacher, or parent depending on its profiles and role assignments.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       *string
	PhoneNumber    *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileKind names the optional per-user specialization rows. The kinds are
// not mutually exclusive; one user may hold any combination.
type ProfileKind string

const (
	ProfileStudent ProfileKind = "STUDENT"
	ProfileTeacher ProfileKind = "TEACHER"
	ProfileParent  ProfileKind = "PARENT"
)

// ValidProfileKind reports whether k is a known profile kind.
func ValidProfileKind(k ProfileKind) bool {
	switch k {
	case ProfileStudent, ProfileTeacher, ProfileParent:
		return true
	}
	return false
}
