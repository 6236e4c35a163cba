package handlers

import (
	"net/http"

	"github.com/letterdraw/letterdraw-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// respondError maps an error to its HTTP status. Engine errors carry a
// kind; anything else is an internal failure whose detail stays out of
// the response body.
func respondError(c *gin.Context, err error) {
	var status int
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindState:
		status = http.StatusConflict
	case apperrors.KindAuthorization:
		status = http.StatusForbidden
	case apperrors.KindProof:
		status = http.StatusUnprocessableEntity
	case apperrors.KindTransfer:
		status = http.StatusBadGateway
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
