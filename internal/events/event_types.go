package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventRoleAssigned   EventType = "role_assigned"
	EventSchoolCreated  EventType = "school_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// RoleAssignedPayload payload.
type RoleAssignedPayload struct {
	RoleID   int64 `json:"role_id"`
	BranchID int64 `json:"branch_id"`
}

// SchoolCreatedPayload payload.
type SchoolCreatedPayload struct {
	Name string `json:"name"`
}
