package entities

import "time"

const (
	RoleAdmin      = "admin"
	RoleModerator  = "moderator"
	RoleSuperAdmin = "super_admin"
)

// Voter is a registered participant. The password hash never leaves the
// identity context; other contexts only see the voter id and display name.
// A zero LastLoginAt means the account has never logged in.
type Voter struct {
	VoterID      string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

type Admin struct {
	AdminID      string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

// AdminClaims is the verified content of an admin session token.
type AdminClaims struct {
	AdminID  string
	Username string
	Role     string
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleModerator, RoleSuperAdmin:
		return true
	}
	return false
}
