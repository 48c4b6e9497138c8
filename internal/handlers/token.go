package handlers

import (
	"net/http"

	"github.com/abira1/Toi-Task/internal/dto"
	apierrors "github.com/abira1/Toi-Task/internal/errors"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/middleware"
	"github.com/abira1/Toi-Task/internal/repository"
	"github.com/gin-gonic/gin"
)

// TokenHandler maintains the caller's push delivery token: upsert when
// the device obtains one, delete on logout cleanup. Last write wins.
type TokenHandler struct {
	tokens repository.TokenRepository
	log    *logger.Logger
}

func NewTokenHandler(tokens repository.TokenRepository, log *logger.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, log: log}
}

// SaveToken upserts the caller's current token.
func (h *TokenHandler) SaveToken(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.SaveTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Token is required")
		return
	}

	if err := h.tokens.Save(userID, req.Token); err != nil {
		h.log.Error("token save failed", "user_id", userID, "error", err)
		apierrors.InternalError(c, "Failed to save token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteToken removes the caller's token row.
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.tokens.Delete(userID); err != nil {
		h.log.Error("token delete failed", "user_id", userID, "error", err)
		apierrors.InternalError(c, "Failed to delete token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
