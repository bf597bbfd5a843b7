package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/ids"
	"coachhub/api/internal/middleware"
	"coachhub/api/internal/models"
)

type coachResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Headline    string    `json:"headline"`
	Bio         string    `json:"bio"`
	Specialties []string  `json:"specialties"`
	IsApproved  bool      `json:"isApproved"`
	HasDocument bool      `json:"hasDocument"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCoachResponse(profile models.CoachProfile) coachResponse {
	return coachResponse{
		ID:          profile.ID,
		UserID:      profile.UserID,
		Headline:    profile.Headline,
		Bio:         profile.Bio,
		Specialties: profile.Specialties,
		IsApproved:  profile.IsApproved,
		HasDocument: profile.DocumentKey != nil,
		CreatedAt:   profile.CreatedAt,
	}
}

// ListCoaches is the public directory: approved profiles only.
func (h HandlerSet) ListCoaches(c *gin.Context) {
	limit, offset := pagination(c)

	profiles, err := h.coaches.ListApproved(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]coachResponse, 0, len(profiles))
	for _, profile := range profiles {
		resp = append(resp, toCoachResponse(profile))
	}
	respondData(c, http.StatusOK, gin.H{"coaches": resp})
}

func (h HandlerSet) AdminListCoaches(c *gin.Context) {
	limit, offset := pagination(c)

	profiles, err := h.coaches.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]coachResponse, 0, len(profiles))
	for _, profile := range profiles {
		resp = append(resp, toCoachResponse(profile))
	}
	respondData(c, http.StatusOK, gin.H{"coaches": resp})
}

type createCoachRequest struct {
	UserID      string   `json:"userId" binding:"required"`
	Headline    string   `json:"headline" binding:"required"`
	Bio         string   `json:"bio"`
	Specialties []string `json:"specialties"`
}

func (h HandlerSet) AdminCreateCoach(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req createCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	profile := models.CoachProfile{
		ID:          ids.New(),
		UserID:      user.ID,
		Headline:    req.Headline,
		Bio:         req.Bio,
		Specialties: req.Specialties,
	}

	if err := h.coaches.Create(c.Request.Context(), profile); err != nil {
		h.respondServiceError(c, err)
		return
	}

	// A coach profile implies the coach role unless the user already
	// holds a higher one.
	if user.Role == models.UserRoleUser {
		if err := h.users.UpdateRole(c.Request.Context(), user.ID, models.UserRoleCoach); err != nil {
			h.log.Warn().Err(err).Str("user_id", user.ID).Msg("coach role assignment failed")
		}
	}

	h.audit.Record(c.Request.Context(), actor.ID, "coach.create", "coach", profile.ID, map[string]any{
		"userId": user.ID,
	}, c.ClientIP())

	respondData(c, http.StatusCreated, gin.H{"coach": toCoachResponse(profile)})
}

type updateCoachRequest struct {
	Headline    string   `json:"headline" binding:"required"`
	Bio         string   `json:"bio"`
	Specialties []string `json:"specialties"`
}

func (h HandlerSet) AdminUpdateCoach(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req updateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	profile, err := h.coaches.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	profile.Headline = req.Headline
	profile.Bio = req.Bio
	profile.Specialties = req.Specialties

	if err := h.coaches.Update(c.Request.Context(), profile); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "coach.update", "coach", profile.ID, nil, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{"coach": toCoachResponse(profile)})
}

type approveCoachRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (h HandlerSet) AdminApproveCoach(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req approveCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	coachID := c.Param("id")
	if err := h.coaches.SetApproved(c.Request.Context(), coachID, *req.Approved); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "coach.approval_update", "coach", coachID, map[string]any{
		"approved": *req.Approved,
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}

const maxDocumentSize = 10 << 20 // 10 MiB

func (h HandlerSet) AdminUploadCoachDocument(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	profile, err := h.coaches.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil || fileHeader.Size == 0 || fileHeader.Size > maxDocumentSize {
		respondValidation(c)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	defer file.Close()

	key := fmt.Sprintf("coaches/%s/%s%s", profile.ID, ids.New(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.store.PutDocument(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		h.respondServiceError(c, err)
		return
	}

	if err := h.coaches.SetDocumentKey(c.Request.Context(), profile.ID, &key); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "coach.document_upload", "coach", profile.ID, map[string]any{
		"filename": fileHeader.Filename,
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}

func (h HandlerSet) AdminCoachDocumentURL(c *gin.Context) {
	profile, err := h.coaches.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if profile.DocumentKey == nil {
		respondError(c, http.StatusNotFound, "not_found")
		return
	}

	url, err := h.store.PresignedDocumentURL(c.Request.Context(), *profile.DocumentKey, 15*time.Minute)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"url": url})
}
