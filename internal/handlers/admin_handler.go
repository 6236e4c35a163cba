package handlers

import (
	"net/http"

	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles engine configuration HTTP requests
type AdminHandler struct {
	roundService services.RoundService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(roundService services.RoundService) *AdminHandler {
	return &AdminHandler{roundService: roundService}
}

// UpdatePriceRequest is the body of PUT /admin/ticket-price
type UpdatePriceRequest struct {
	Price int64 `json:"price" binding:"required"`
}

// UpdateTicketPrice handles PUT /admin/ticket-price
func (h *AdminHandler) UpdateTicketPrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roundService.UpdateTicketPrice(c.Request.Context(), req.Price); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticketPrice": req.Price})
}

// UpdateThresholdRequest is the body of PUT /admin/ticket-threshold
type UpdateThresholdRequest struct {
	Threshold int64 `json:"threshold" binding:"required"`
}

// UpdateTicketThreshold handles PUT /admin/ticket-threshold
func (h *AdminHandler) UpdateTicketThreshold(c *gin.Context) {
	var req UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roundService.UpdateTicketThreshold(c.Request.Context(), req.Threshold); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticketThreshold": req.Threshold})
}

// UpdateFeeConfigRequest is the body of PUT /admin/fee-config
type UpdateFeeConfigRequest struct {
	Receiver1    string `json:"receiver1" binding:"required"`
	Receiver2    string `json:"receiver2" binding:"required"`
	SplitPercent int64  `json:"splitPercent"`
}

// UpdateFeeConfig handles PUT /admin/fee-config
func (h *AdminHandler) UpdateFeeConfig(c *gin.Context) {
	var req UpdateFeeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roundService.UpdateFeeConfig(c.Request.Context(), req.Receiver1, req.Receiver2, req.SplitPercent); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiver1": req.Receiver1, "receiver2": req.Receiver2, "splitPercent": req.SplitPercent})
}

// UpdateSubscriptionRequest is the body of PUT /admin/vrf-subscription
type UpdateSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId" binding:"required"`
}

// UpdateVRFSubscription handles PUT /admin/vrf-subscription
func (h *AdminHandler) UpdateVRFSubscription(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roundService.UpdateVRFSubscription(c.Request.Context(), req.SubscriptionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptionId": req.SubscriptionID})
}

// ClearStuckRequest handles POST /admin/clear-stuck-request
func (h *AdminHandler) ClearStuckRequest(c *gin.Context) {
	if err := h.roundService.ClearStuckRequest(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// GetSettings handles GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.roundService.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
