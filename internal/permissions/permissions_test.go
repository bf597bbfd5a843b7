package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachhub/api/internal/models"
)

func userWithRole(role models.UserRole) models.User {
	return models.User{ID: "u1", Role: role, IsActive: true}
}

func TestForRoleExactSets(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want []string
	}{
		{models.UserRoleUser, []string{}},
		{models.UserRoleCoach, []string{ViewBookings}},
		{models.UserRoleModerator, []string{ViewUsers, ViewBookings, ViewCoaches}},
		{models.UserRoleAdmin, []string{
			ViewUsers, ManageUsers,
			ViewDonations, ManageDonations,
			ViewBookings, ManageBookings,
			ViewCoaches, ManageCoaches,
			ViewActivityLogs, ManageSessions,
		}},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, ForRole(tc.role))
		})
	}
}

func TestSuperAdminHoldsUniverse(t *testing.T) {
	user := userWithRole(models.UserRoleSuperAdmin)
	assert.ElementsMatch(t, Universe(), List(user))

	// Stored overrides are irrelevant for super_admin.
	user.Permissions = []string{ViewUsers}
	assert.ElementsMatch(t, Universe(), List(user))
}

func TestRolesAreFlat(t *testing.T) {
	// admin is not a superset of super_admin and holds no full_access;
	// moderator's view set is not implied by coach. Nothing is inherited.
	assert.False(t, Has(userWithRole(models.UserRoleAdmin), FullAccess))
	assert.False(t, Has(userWithRole(models.UserRoleCoach), ViewUsers))
	assert.False(t, Has(userWithRole(models.UserRoleUser), ViewBookings))
	assert.False(t, Has(userWithRole(models.UserRoleModerator), ManageUsers))
}

func TestOverridesUnionWithRoleDefaults(t *testing.T) {
	user := userWithRole(models.UserRoleCoach)
	user.Permissions = []string{ViewDonations}

	assert.True(t, Has(user, ViewBookings))
	assert.True(t, Has(user, ViewDonations))
	assert.False(t, Has(user, ManageDonations))
}

func TestUnknownOverridesDropped(t *testing.T) {
	user := userWithRole(models.UserRoleUser)
	user.Permissions = []string{"become_root", ViewUsers}

	resolved := List(user)
	require.Equal(t, []string{ViewUsers}, resolved)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(ViewUsers))
	assert.True(t, Valid(FullAccess))
	assert.False(t, Valid(""))
	assert.False(t, Valid("view_users "))
	assert.False(t, Valid("delete_everything"))
}

func TestHasAny(t *testing.T) {
	user := userWithRole(models.UserRoleModerator)
	assert.True(t, HasAny(user, ManageUsers, ViewUsers))
	assert.False(t, HasAny(user, ManageUsers, ManageCoaches))
	assert.False(t, HasAny(user))
}
