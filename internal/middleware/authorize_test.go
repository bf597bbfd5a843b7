package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"coachhub/api/internal/models"
	"coachhub/api/internal/permissions"
)

func newGateRouter(user *models.User, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/gated", func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, *user)
		}
		c.Next()
	}, gate, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func hitGate(t *testing.T, router *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequirePermission(t *testing.T) {
	moderator := models.User{ID: "u1", Role: models.UserRoleModerator, IsActive: true}

	w := hitGate(t, newGateRouter(&moderator, RequirePermission(permissions.ViewUsers)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = hitGate(t, newGateRouter(&moderator, RequirePermission(permissions.ManageUsers)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permission")
}

func TestRequirePermissionWithoutUser(t *testing.T) {
	w := hitGate(t, newGateRouter(nil, RequirePermission(permissions.ViewUsers)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermissionHonorsOverrides(t *testing.T) {
	coach := models.User{
		ID:          "u2",
		Role:        models.UserRoleCoach,
		Permissions: []string{permissions.ViewDonations},
		IsActive:    true,
	}

	w := hitGate(t, newGateRouter(&coach, RequirePermission(permissions.ViewDonations)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	coach := models.User{ID: "u3", Role: models.UserRoleCoach, IsActive: true}

	w := hitGate(t, newGateRouter(&coach, RequireAnyPermission(permissions.ManageUsers, permissions.ViewBookings)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = hitGate(t, newGateRouter(&coach, RequireAnyPermission(permissions.ManageUsers, permissions.ManageDonations)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireSuperAdmin(t *testing.T) {
	superAdmin := models.User{ID: "u4", Role: models.UserRoleSuperAdmin, IsActive: true}
	w := hitGate(t, newGateRouter(&superAdmin, RequireSuperAdmin()))
	assert.Equal(t, http.StatusOK, w.Code)

	// An admin granted full_access as an override still fails the role check.
	admin := models.User{
		ID:          "u5",
		Role:        models.UserRoleAdmin,
		Permissions: []string{permissions.FullAccess},
		IsActive:    true,
	}
	w = hitGate(t, newGateRouter(&admin, RequireSuperAdmin()))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
