package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/repository"
	"coachhub/api/internal/service"
)

// All responses share one envelope: {"success": true, "data": ...} or
// {"success": false, "error": "<code>"}. Error codes are stable strings
// the dashboard switches on; human wording lives client-side.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{"success": false, "error": code})
}

func respondValidation(c *gin.Context) {
	respondError(c, http.StatusBadRequest, "validation_error")
}

// respondServiceError maps service and repository sentinels onto HTTP
// statuses. Unknown errors become a logged 500 with a generic code so
// internals never leak to clients.
func (h HandlerSet) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, service.ErrAccountInactive):
		respondError(c, http.StatusForbidden, "account_inactive")
	case errors.Is(err, service.ErrSessionInvalid):
		respondError(c, http.StatusUnauthorized, "authentication_required")
	case errors.Is(err, service.ErrForbiddenSelfTermination):
		respondError(c, http.StatusForbidden, "forbidden_self_termination")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, "email_taken")
	case errors.Is(err, service.ErrTooManyAttempts):
		respondError(c, http.StatusTooManyRequests, "too_many_attempts")
	case errors.Is(err, service.ErrInvalidResetToken):
		respondError(c, http.StatusBadRequest, "invalid_reset_token")
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrDonationNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrCoachNotFound):
		respondError(c, http.StatusNotFound, "not_found")
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		respondError(c, http.StatusInternalServerError, "internal_error")
	}
}
