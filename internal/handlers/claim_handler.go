package handlers

import (
	"encoding/hex"
	"net/http"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/letterdraw/letterdraw-backend/internal/middleware"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ClaimHandler handles commitment and prize claim HTTP requests
type ClaimHandler struct {
	claimService services.ClaimService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// SubmitCommitmentRequest is the body of POST /commitments
type SubmitCommitmentRequest struct {
	Round            uint64 `json:"round" binding:"required"`
	Root             string `json:"root" binding:"required"`
	SettlementAmount int64  `json:"settlementAmount"`
}

// SubmitCommitment handles POST /commitments (authority only)
func (h *ClaimHandler) SubmitCommitment(c *gin.Context) {
	var req SubmitCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := middleware.CallerRole(c)
	if err := h.claimService.SubmitCommitment(c.Request.Context(), role, req.Round, req.Root, req.SettlementAmount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"round": req.Round, "root": req.Root})
}

// ClaimPrizeRequest is the body of POST /claims. The proof is the
// bottom-up list of hex-encoded sibling digests.
type ClaimPrizeRequest struct {
	Player  string   `json:"player" binding:"required"`
	Letters [3]int   `json:"letters" binding:"required"`
	Tier    int      `json:"tier"`
	Amount  int64    `json:"amount"`
	Round   uint64   `json:"round" binding:"required"`
	Proof   []string `json:"proof"`
}

// ClaimPrize handles POST /claims
func (h *ClaimHandler) ClaimPrize(c *gin.Context) {
	var req ClaimPrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proof := make([][]byte, 0, len(req.Proof))
	for _, p := range req.Proof {
		node, err := hex.DecodeString(p)
		if err != nil {
			respondError(c, apperrors.Validationf("proof nodes must be hex encoded"))
			return
		}
		proof = append(proof, node)
	}

	// The caller identity travels in a header, the claim tuple in the
	// body. They must name the same player.
	caller := c.GetHeader("X-Player-Id")
	if caller == "" {
		caller = req.Player
	}

	claim := &models.PrizeClaim{
		Player:  req.Player,
		Letters: req.Letters,
		Tier:    req.Tier,
		Amount:  req.Amount,
		Round:   req.Round,
	}
	record, err := h.claimService.ClaimPrize(c.Request.Context(), caller, claim, proof)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// IsClaimed handles GET /claims/:digest
func (h *ClaimHandler) IsClaimed(c *gin.Context) {
	digest := c.Param("digest")
	claimed, err := h.claimService.IsClaimed(c.Request.Context(), digest)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"digest": digest, "claimed": claimed})
}
