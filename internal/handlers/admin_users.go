package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/middleware"
	"coachhub/api/internal/models"
	"coachhub/api/internal/permissions"
)

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	limit, offset := pagination(c)

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}
	respondData(c, http.StatusOK, gin.H{"users": resp})
}

func (h HandlerSet) AdminGetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h HandlerSet) AdminUpdateUserRole(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	role := models.UserRole(req.Role)
	if !models.ValidRole(role) {
		respondValidation(c)
		return
	}

	targetID := c.Param("id")
	if targetID == actor.ID {
		respondError(c, http.StatusForbidden, "forbidden_self_modification")
		return
	}

	// Only a super_admin may mint another super_admin.
	if role == models.UserRoleSuperAdmin && actor.Role != models.UserRoleSuperAdmin {
		respondError(c, http.StatusForbidden, "insufficient_permission")
		return
	}

	target, err := h.users.GetByID(c.Request.Context(), targetID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), target.ID, role); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "user.role_update", "user", target.ID, map[string]any{
		"from": string(target.Role),
		"to":   string(role),
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}

type updateStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h HandlerSet) AdminUpdateUserStatus(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	targetID := c.Param("id")
	if targetID == actor.ID {
		respondError(c, http.StatusForbidden, "forbidden_self_modification")
		return
	}

	if err := h.users.UpdateActive(c.Request.Context(), targetID, *req.IsActive); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "user.status_update", "user", targetID, map[string]any{
		"isActive": *req.IsActive,
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

func (h HandlerSet) AdminUpdateUserPermissions(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req updatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	// Overrides come from the closed set only; free-form strings from
	// the client are rejected outright.
	for _, name := range req.Permissions {
		if !permissions.Valid(name) {
			respondValidation(c)
			return
		}
	}

	targetID := c.Param("id")
	if targetID == actor.ID {
		respondError(c, http.StatusForbidden, "forbidden_self_modification")
		return
	}

	// Granting full_access is equivalent to minting a super_admin.
	for _, name := range req.Permissions {
		if name == permissions.FullAccess && actor.Role != models.UserRoleSuperAdmin {
			respondError(c, http.StatusForbidden, "insufficient_permission")
			return
		}
	}

	if err := h.users.UpdatePermissions(c.Request.Context(), targetID, req.Permissions); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "user.permissions_update", "user", targetID, map[string]any{
		"permissions": req.Permissions,
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}
