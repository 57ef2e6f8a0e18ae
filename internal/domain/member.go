package domain

import "time"

// Role is the portal role attached to an authenticated member
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOfficer Role = "officer"
	RoleMember  Role = "member"
)

// Member represents a union member record from the member directory
type Member struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	UnitCollege string    `json:"unit_college"`
	Designation string    `json:"designation"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthenticatedMember is the identity attached to a request by the auth
// middleware. Operations take it explicitly instead of reading ambient
// session state.
type AuthenticatedMember struct {
	MemberID int64 `json:"member_id"`
	Role     Role  `json:"role"`
}

// IsAdmin reports whether the member can manage elections
func (m *AuthenticatedMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}
