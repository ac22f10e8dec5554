package domain

import "time"

// School is a tenant on the platform. Deleting a school cascades to its
// branches at the storage layer.
type School struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Branch is an organizational sub-unit of a school and the scope at which
// role assignments apply.
type Branch struct {
	ID        int64
	Name      string
	SchoolID  int64
	CreatedAt time.Time
}
