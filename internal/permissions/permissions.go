// Package permissions holds the platform's role-based access policy as a
// single declarative table. Every enforcement point resolves through this
// package so the role→permission mapping cannot drift between routes.
package permissions

import (
	"sort"

	"coachhub/api/internal/models"
)

// Permission names form a closed set. Client input naming a permission
// outside this set is rejected, never stored.
const (
	ViewUsers        = "view_users"
	ManageUsers      = "manage_users"
	ViewDonations    = "view_donations"
	ManageDonations  = "manage_donations"
	ViewBookings     = "view_bookings"
	ManageBookings   = "manage_bookings"
	ViewCoaches      = "view_coaches"
	ManageCoaches    = "manage_coaches"
	ViewActivityLogs = "view_activity_logs"
	ManageSessions   = "manage_sessions"
	FullAccess       = "full_access"
)

var universe = map[string]struct{}{
	ViewUsers:        {},
	ManageUsers:      {},
	ViewDonations:    {},
	ManageDonations:  {},
	ViewBookings:     {},
	ManageBookings:   {},
	ViewCoaches:      {},
	ManageCoaches:    {},
	ViewActivityLogs: {},
	ManageSessions:   {},
	FullAccess:       {},
}

// rolePermissions is the static policy. Roles are flat: a role grants
// exactly what is listed here, nothing is inherited from other roles.
var rolePermissions = map[models.UserRole][]string{
	models.UserRoleUser:  {},
	models.UserRoleCoach: {ViewBookings},
	models.UserRoleModerator: {
		ViewUsers,
		ViewBookings,
		ViewCoaches,
	},
	models.UserRoleAdmin: {
		ViewUsers,
		ManageUsers,
		ViewDonations,
		ManageDonations,
		ViewBookings,
		ManageBookings,
		ViewCoaches,
		ManageCoaches,
		ViewActivityLogs,
		ManageSessions,
	},
}

// Valid reports whether name belongs to the closed permission set.
func Valid(name string) bool {
	_, ok := universe[name]
	return ok
}

// Universe returns every known permission name, sorted.
func Universe() []string {
	names := make([]string, 0, len(universe))
	for name := range universe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForRole returns the default permission set for a role. super_admin
// returns the full universe. Unknown roles return nothing.
func ForRole(role models.UserRole) []string {
	if role == models.UserRoleSuperAdmin {
		return Universe()
	}
	defaults := rolePermissions[role]
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// ResolveUser returns the effective permission set for a user: the role's
// defaults unioned with any per-user overrides. super_admin always holds
// the full universe regardless of stored overrides. Overrides outside the
// closed set are dropped.
func ResolveUser(user models.User) map[string]struct{} {
	resolved := make(map[string]struct{})
	if user.Role == models.UserRoleSuperAdmin {
		for name := range universe {
			resolved[name] = struct{}{}
		}
		return resolved
	}

	for _, name := range rolePermissions[user.Role] {
		resolved[name] = struct{}{}
	}
	for _, name := range user.Permissions {
		if Valid(name) {
			resolved[name] = struct{}{}
		}
	}
	return resolved
}

// List returns ResolveUser's result sorted, for JSON responses.
func List(user models.User) []string {
	resolved := ResolveUser(user)
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the user's effective set contains permission.
func Has(user models.User, permission string) bool {
	_, ok := ResolveUser(user)[permission]
	return ok
}

// HasAny reports whether the user holds at least one of the given
// permissions.
func HasAny(user models.User, perms ...string) bool {
	resolved := ResolveUser(user)
	for _, name := range perms {
		if _, ok := resolved[name]; ok {
			return true
		}
	}
	return false
}
