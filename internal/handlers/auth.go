package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/middleware"
	"coachhub/api/internal/models"
	"coachhub/api/internal/permissions"
	"coachhub/api/internal/service"
)

type userResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Role        string   `json:"role"`
	IsActive    bool     `json:"isActive"`
	Permissions []string `json:"permissions"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		IsActive:    user.IsActive,
		Permissions: permissions.List(user),
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, time.Until(result.ExpiresAt))

	h.audit.Record(c.Request.Context(), result.User.ID, "auth.login", "session", result.Session.ID, nil, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{
		"user":      toUserResponse(result.User),
		"expiresAt": result.ExpiresAt,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Sessions.CookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.respondServiceError(c, err)
			return
		}
	}

	h.setSessionCookie(c, "", -time.Second)
	respondData(c, http.StatusOK, gin.H{})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication_required")
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type sessionResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Current    bool      `json:"current"`
}

func (h HandlerSet) MySessions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication_required")
		return
	}
	current, _ := middleware.CurrentSession(c)

	sessions, err := h.authService.ListUserSessions(c.Request.Context(), user.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{
			ID:         session.ID,
			UserID:     session.UserID,
			IPAddress:  session.IPAddress,
			UserAgent:  session.UserAgent,
			CreatedAt:  session.CreatedAt,
			LastSeenAt: session.LastSeenAt,
			ExpiresAt:  session.ExpiresAt,
			Current:    session.ID == current.ID,
		})
	}

	respondData(c, http.StatusOK, gin.H{"sessions": resp})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication_required")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), user.ID, "auth.password_change", "user", user.ID, nil, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) RequestPasswordReset(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	token, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	// The token goes out through the notification pipeline, never in the
	// response. The response shape is the same whether or not the email
	// matched an account.
	if token != "" {
		h.log.Info().Str("email", req.Email).Msg("password reset token issued")
	}

	respondData(c, http.StatusOK, gin.H{})
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) ConfirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.Sessions.CookieName,
		token,
		int(maxAge.Seconds()),
		"/",
		"",
		h.cfg.Environment == "production",
		true,
	)
}
