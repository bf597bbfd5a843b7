package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/middleware"
	"coachhub/api/internal/repository"
)

func (h HandlerSet) AdminListSessions(c *gin.Context) {
	limit, offset := pagination(c)

	sessions, err := h.sessions.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	current, _ := middleware.CurrentSession(c)
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

func (h HandlerSet) AdminTerminateSession(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	sessionID := c.Param("id")

	if err := h.authService.TerminateSession(c.Request.Context(), sessionID, actor.ID); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "session.terminate", "session", sessionID, nil, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}

type activityResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Action     string         `json:"action"`
	Resource   *string        `json:"resource"`
	ResourceID *string        `json:"resourceId"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (h HandlerSet) AdminListActivity(c *gin.Context) {
	limit, offset := pagination(c)

	entries, err := h.activity.List(c.Request.Context(), repository.ActivityFilter{
		UserID:   c.Query("userId"),
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]activityResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, activityResponse{
			ID:         entry.ID,
			UserID:     entry.UserID,
			Action:     entry.Action,
			Resource:   entry.Resource,
			ResourceID: entry.ResourceID,
			Details:    entry.Details,
			IPAddress:  entry.IPAddress,
			CreatedAt:  entry.CreatedAt,
		})
	}

	respondData(c, http.StatusOK, gin.H{"entries": resp})
}
