package handlers

import (
	"crypto/subtle"
	"math/big"
	"net/http"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// OracleHandler receives randomness fulfilment callbacks.
type OracleHandler struct {
	roundService  services.RoundService
	callbackToken string
}

// NewOracleHandler creates a new OracleHandler
func NewOracleHandler(roundService services.RoundService, callbackToken string) *OracleHandler {
	return &OracleHandler{roundService: roundService, callbackToken: callbackToken}
}

// FulfillRequest is the body of POST /oracle/fulfill. The random value
// arrives as a decimal string because it routinely exceeds 64 bits.
type FulfillRequest struct {
	RequestID   string `json:"requestId" binding:"required"`
	RandomValue string `json:"randomValue" binding:"required"`
}

// Fulfill handles POST /oracle/fulfill
func (h *OracleHandler) Fulfill(c *gin.Context) {
	if h.callbackToken != "" {
		token := c.GetHeader("X-Oracle-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.callbackToken)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid oracle token"})
			return
		}
	}

	var req FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, ok := new(big.Int).SetString(req.RandomValue, 10)
	if !ok {
		respondError(c, apperrors.Validationf("random value must be a decimal integer"))
		return
	}

	round, err := h.roundService.OnRandomnessFulfilled(c.Request.Context(), req.RequestID, value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"round":          round.Number,
		"winningLetters": round.WinningLetters,
	})
}
