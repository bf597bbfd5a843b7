package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/models"
	"coachhub/api/internal/permissions"
)

// Permission gates compose after Auth. Role strings are never compared
// here; the role only selects the default permission set inside the
// resolver, so every route is gated by the same convention.

func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication_required"})
			return
		}

		if !permissions.Has(user, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient_permission"})
			return
		}

		c.Next()
	}
}

func RequireAnyPermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication_required"})
			return
		}

		if !permissions.HasAny(user, perms...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient_permission"})
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin gates routes that only the super_admin role may hit.
// full_access is exclusive to that role, the role check makes the intent
// explicit at the route definition.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication_required"})
			return
		}

		if user.Role != models.UserRoleSuperAdmin || !permissions.Has(user, permissions.FullAccess) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient_permission"})
			return
		}

		c.Next()
	}
}
