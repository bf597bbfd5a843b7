package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/ids"
	"coachhub/api/internal/middleware"
	"coachhub/api/internal/models"
)

type createBookingRequest struct {
	CoachID  string    `json:"coachId" binding:"required"`
	StartsAt time.Time `json:"startsAt" binding:"required"`
	EndsAt   time.Time `json:"endsAt" binding:"required"`
	Notes    string    `json:"notes"`
}

type bookingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CoachID   string    `json:"coachId"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBookingResponse(booking models.Booking) bookingResponse {
	return bookingResponse{
		ID:        booking.ID,
		UserID:    booking.UserID,
		CoachID:   booking.CoachID,
		StartsAt:  booking.StartsAt,
		EndsAt:    booking.EndsAt,
		Status:    string(booking.Status),
		Notes:     booking.Notes,
		CreatedAt: booking.CreatedAt,
	}
}

func (h HandlerSet) CreateBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication_required")
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		respondValidation(c)
		return
	}

	coach, err := h.coaches.GetByID(c.Request.Context(), req.CoachID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !coach.IsApproved {
		respondError(c, http.StatusNotFound, "not_found")
		return
	}

	booking := models.Booking{
		ID:       ids.New(),
		UserID:   user.ID,
		CoachID:  coach.ID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Status:   models.BookingStatusPending,
		Notes:    req.Notes,
	}

	if err := h.bookings.Create(c.Request.Context(), booking); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"booking": toBookingResponse(booking)})
}

func (h HandlerSet) MyBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication_required")
		return
	}

	bookings, err := h.bookings.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		resp = append(resp, toBookingResponse(booking))
	}
	respondData(c, http.StatusOK, gin.H{"bookings": resp})
}

// CancelBooking lets a user cancel their own booking. Admin-side status
// changes go through the gated admin route instead.
func (h HandlerSet) CancelBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication_required")
		return
	}

	booking, err := h.bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if booking.UserID != user.ID {
		respondError(c, http.StatusNotFound, "not_found")
		return
	}

	if err := h.bookings.UpdateStatus(c.Request.Context(), booking.ID, models.BookingStatusCancelled); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

func (h HandlerSet) AdminListBookings(c *gin.Context) {
	limit, offset := pagination(c)

	bookings, err := h.bookings.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		resp = append(resp, toBookingResponse(booking))
	}
	respondData(c, http.StatusOK, gin.H{"bookings": resp})
}

type updateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) AdminUpdateBookingStatus(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	status := models.BookingStatus(req.Status)
	if !models.ValidBookingStatus(status) {
		respondValidation(c)
		return
	}

	bookingID := c.Param("id")
	if err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, status); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "booking.status_update", "booking", bookingID, map[string]any{
		"status": string(status),
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}
