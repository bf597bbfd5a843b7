package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/models"
	"coachhub/api/internal/service"
)

// Context keys for values attached by Auth.
const (
	ContextUserKey    = "current_user"
	ContextSessionKey = "current_session"
)

// SessionValidator resolves a raw session cookie token.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string, ip string, userAgent string) (models.User, models.AdminSession, error)
}

// Auth reads the session cookie, validates it and attaches the user and
// session to the request context. Requests without a valid session get
// a 401 regardless of why validation failed.
func Auth(cookieName string, validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication_required"})
			return
		}

		user, session, err := validator.ValidateSession(c.Request.Context(), token, c.ClientIP(), c.GetHeader("User-Agent"))
		if err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication_required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal_error"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextSessionKey, session)

		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// CurrentSession returns the session attached by Auth.
func CurrentSession(c *gin.Context) (models.AdminSession, bool) {
	val, exists := c.Get(ContextSessionKey)
	if !exists {
		return models.AdminSession{}, false
	}
	session, ok := val.(models.AdminSession)
	return session, ok
}
