package handlers

import (
	"net/http"
	"strconv"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RoundHandler serves the read API: engine status, rounds, fees and
// the event log.
type RoundHandler struct {
	roundService services.RoundService
	claimService services.ClaimService
	feeService   services.FeeService
	eventService *services.EventService
}

// NewRoundHandler creates a new RoundHandler
func NewRoundHandler(
	roundService services.RoundService,
	claimService services.ClaimService,
	feeService services.FeeService,
	eventService *services.EventService,
) *RoundHandler {
	return &RoundHandler{
		roundService: roundService,
		claimService: claimService,
		feeService:   feeService,
		eventService: eventService,
	}
}

// GetStatus handles GET /status
func (h *RoundHandler) GetStatus(c *gin.Context) {
	status, err := h.roundService.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ListRounds handles GET /rounds
func (h *RoundHandler) ListRounds(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rounds, err := h.roundService.ListRounds(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds, "page": page, "limit": limit})
}

// GetRound handles GET /rounds/:number
func (h *RoundHandler) GetRound(c *gin.Context) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		respondError(c, apperrors.Validationf("round number must be a positive integer"))
		return
	}

	round, err := h.roundService.GetRound(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// GetRoundClaims handles GET /rounds/:number/claims
func (h *RoundHandler) GetRoundClaims(c *gin.Context) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		respondError(c, apperrors.Validationf("round number must be a positive integer"))
		return
	}

	claims, err := h.claimService.ClaimsByRound(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": number, "claims": claims})
}

// GetRoundEvents handles GET /rounds/:number/events
func (h *RoundHandler) GetRoundEvents(c *gin.Context) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		respondError(c, apperrors.Validationf("round number must be a positive integer"))
		return
	}

	events, err := h.eventService.EventsByRound(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": number, "events": events})
}

// GetFeeTotal handles GET /fees/total
func (h *RoundHandler) GetFeeTotal(c *gin.Context) {
	total, err := h.feeService.Total(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalCollected": total})
}

// GetRecentEvents handles GET /events
func (h *RoundHandler) GetRecentEvents(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	events, err := h.eventService.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
