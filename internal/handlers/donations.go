package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachhub/api/internal/ids"
	"coachhub/api/internal/middleware"
	"coachhub/api/internal/models"
)

type createDonationRequest struct {
	DonorName   string `json:"donorName" binding:"required"`
	DonorEmail  string `json:"donorEmail" binding:"required,email"`
	AmountCents int64  `json:"amountCents" binding:"required,gt=0"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	Message     string `json:"message"`
}

type donationResponse struct {
	ID          string    `json:"id"`
	DonorName   string    `json:"donorName"`
	DonorEmail  string    `json:"donorEmail"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toDonationResponse(donation models.Donation) donationResponse {
	return donationResponse{
		ID:          donation.ID,
		DonorName:   donation.DonorName,
		DonorEmail:  donation.DonorEmail,
		AmountCents: donation.AmountCents,
		Currency:    donation.Currency,
		Status:      string(donation.Status),
		Reference:   donation.Reference,
		Message:     donation.Message,
		CreatedAt:   donation.CreatedAt,
	}
}

// CreateDonation records a donation intent. Settlement happens at the
// payment processor; this row tracks it by reference.
func (h HandlerSet) CreateDonation(c *gin.Context) {
	var req createDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	donation := models.Donation{
		ID:          ids.New(),
		DonorName:   req.DonorName,
		DonorEmail:  req.DonorEmail,
		AmountCents: req.AmountCents,
		Currency:    currency,
		Status:      models.DonationStatusPending,
		Reference:   req.Reference,
		Message:     req.Message,
	}

	if err := h.donations.Create(c.Request.Context(), donation); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"donation": toDonationResponse(donation)})
}

func (h HandlerSet) AdminListDonations(c *gin.Context) {
	limit, offset := pagination(c)

	donations, err := h.donations.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]donationResponse, 0, len(donations))
	for _, donation := range donations {
		resp = append(resp, toDonationResponse(donation))
	}
	respondData(c, http.StatusOK, gin.H{"donations": resp})
}

type updateDonationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) AdminUpdateDonationStatus(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req updateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c)
		return
	}

	status := models.DonationStatus(req.Status)
	if !models.ValidDonationStatus(status) {
		respondValidation(c)
		return
	}

	donationID := c.Param("id")
	if err := h.donations.UpdateStatus(c.Request.Context(), donationID, status); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "donation.status_update", "donation", donationID, map[string]any{
		"status": string(status),
	}, c.ClientIP())

	respondData(c, http.StatusOK, gin.H{})
}
