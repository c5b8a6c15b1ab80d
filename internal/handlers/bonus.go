package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-miniapp-backend/internal/engine"
	"casino-miniapp-backend/internal/services"
)

type BonusHandler struct {
	bonus  *services.BonusService
	engine *engine.Engine
}

func NewBonusHandler(bonus *services.BonusService, eng *engine.Engine) *BonusHandler {
	return &BonusHandler{bonus: bonus, engine: eng}
}

// Claim awards the daily streak bonus. The credit goes through the engine so
// it is serialized with round settlement; it stays local-only until a later
// reconciliation confirms it remotely, so the wallet is left unsynced.
func (h *BonusHandler) Claim(c *gin.Context) {
	userID := c.GetInt64("user_id")
	ctx := c.Request.Context()

	result, err := h.bonus.Claim(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrBonusAlreadyClaimed) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bonus already claimed today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to claim bonus",
			"details": err.Error(),
		})
		return
	}

	wallet, err := h.engine.Credit(ctx, userID, result.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit bonus"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bonus":   result,
		"balance": wallet.Optimistic,
	})
}
