package handlers

import (
	"net/http"

	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// TicketHandler handles ticket purchase HTTP requests
type TicketHandler struct {
	roundService services.RoundService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(roundService services.RoundService) *TicketHandler {
	return &TicketHandler{roundService: roundService}
}

// BuyTicketRequest is the body of POST /tickets
type BuyTicketRequest struct {
	Player  string `json:"player" binding:"required"`
	Letters [3]int `json:"letters" binding:"required"`
	Payment int64  `json:"payment"`
}

// BuyTicket handles POST /tickets
func (h *TicketHandler) BuyTicket(c *gin.Context) {
	var req BuyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.roundService.BuyTicket(c.Request.Context(), req.Player, req.Letters, req.Payment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}
