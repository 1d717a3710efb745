package domain

import "time"

// Role represents the access level of a profile.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
)

// Profile represents a user identity owned by the external auth provider.
type Profile struct {
	ID        string
	Email     string
	Name      string
	Phone     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsStaff reports whether the profile may access the admin surface.
func (p *Profile) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}
