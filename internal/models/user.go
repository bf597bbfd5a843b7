package models

import "time"

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleCoach      UserRole = "coach"
	UserRoleModerator  UserRole = "moderator"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// ValidRole reports whether role is one of the known role names.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleUser, UserRoleCoach, UserRoleModerator, UserRoleAdmin, UserRoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	Role         UserRole
	// Permissions holds explicit per-user grants on top of the role's
	// default set. Empty for almost every user.
	Permissions []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AdminSession is a server-side session row. The cookie carries the raw
// token; only its SHA-256 hash is stored. A session validates while
// IsActive is set, ExpiresAt is in the future and the owning user is
// active. Expiry, logout and forced termination all land in the same
// dead state; there is no path back to active.
type AdminSession struct {
	ID         string
	UserID     string
	TokenHash  []byte
	ExpiresAt  time.Time
	IPAddress  string
	UserAgent  string
	IsActive   bool
	CreatedAt  time.Time
	LastSeenAt time.Time
}
