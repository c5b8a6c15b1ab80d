package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"casino-miniapp-backend/internal/engine"
	"casino-miniapp-backend/internal/games"
	"casino-miniapp-backend/internal/models"
	"casino-miniapp-backend/internal/services"
)

// GameStore is the slice of the store the game endpoints need.
type GameStore interface {
	GetWallet(ctx context.Context, userID int64) (*models.WalletBalance, error)
	GetRoundHistory(ctx context.Context, userID int64, limit int64) ([]*models.RoundRecord, error)
	CheckRateLimit(ctx context.Context, userID int64, action string, limit int, window time.Duration) (bool, error)
}

type GameHandler struct {
	engine  *engine.Engine
	catalog *games.Catalog
	store   GameStore
}

func NewGameHandler(eng *engine.Engine, catalog *games.Catalog, store GameStore) *GameHandler {
	return &GameHandler{
		engine:  eng,
		catalog: catalog,
		store:   store,
	}
}

// PlaceBet runs one wager round. For instant games the response carries the
// settled outcome; for a live crash round it returns the round id and the
// outcome arrives through cash-out (or the websocket crash event).
func (h *GameHandler) PlaceBet(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	allowed, err := h.store.CheckRateLimit(c.Request.Context(), userID, "bet",
		services.DefaultRateLimitBets, time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many bets. Please wait."})
		return
	}

	result, err := h.engine.PlaceBet(c.Request.Context(), userID, &req)
	if err != nil {
		h.betError(c, err)
		return
	}

	h.writeBetResult(c, result)
}

// CrashCashout cashes out the session's live crash round at the currently
// displayed multiplier.
func (h *GameHandler) CrashCashout(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req struct {
		RoundID string `json:"round_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	allowed, err := h.store.CheckRateLimit(c.Request.Context(), userID, "cashout",
		services.DefaultRateLimitCashouts, time.Minute)
	if err != nil || !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many cash-outs. Please wait."})
		return
	}

	result, err := h.engine.CashoutLive(c.Request.Context(), userID, req.RoundID)
	if err != nil {
		if errors.Is(err, models.ErrNoLiveRound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No live round to cash out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to cash out",
			"details": err.Error(),
		})
		return
	}

	h.writeBetResult(c, result)
}

func (h *GameHandler) writeBetResult(c *gin.Context, result *engine.BetResult) {
	resp := gin.H{
		"success":  true,
		"round_id": result.RoundID,
		"state":    result.State,
	}

	if result.Live {
		resp["live"] = true
		c.JSON(http.StatusOK, resp)
		return
	}

	resp["outcome"] = gin.H{
		"win":         result.Outcome.Win,
		"profit_loss": result.Outcome.ProfitLoss,
		"description": result.Raw.Label,
	}
	resp["wallet"] = gin.H{
		"balance":       result.Wallet.Optimistic,
		"authoritative": result.Wallet.Authoritative,
		"synced":        result.Wallet.Synced,
	}
	if result.State == engine.StateUnsynced {
		// Non-fatal: the round stands locally, it just has not been
		// confirmed by the ledger.
		resp["warning"] = "Round not yet confirmed by the ledger"
	}

	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) betError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownGame):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown game", "details": err.Error()})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet", "details": err.Error()})
	case errors.Is(err, models.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Insufficient balance",
			"code":    "insufficient_funds",
			"details": err.Error(),
		})
	case errors.Is(err, models.ErrRoundInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A round is already in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to place bet",
			"details": err.Error(),
		})
	}
}

func (h *GameHandler) GetBalance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	wallet, err := h.store.GetWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get wallet",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": gin.H{
			"balance":       wallet.Optimistic,
			"authoritative": wallet.Authoritative,
			"synced":        wallet.Synced,
		},
	})
}

func (h *GameHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   h.catalog.Definitions(),
	})
}

func (h *GameHandler) GetGameHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	rounds, err := h.store.GetRoundHistory(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get game history",
			"details": err.Error(),
		})
		return
	}

	// Initialized so an empty history serializes as [] rather than null.
	response := []gin.H{}
	for _, round := range rounds {
		response = append(response, gin.H{
			"id":          round.ID,
			"game_id":     round.GameID,
			"amount":      round.Amount,
			"choice":      round.Choice,
			"outcome":     round.Outcome,
			"profit_loss": round.ProfitLoss,
			"win":         round.Win,
			"synced":      round.Synced,
			"created_at":  round.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  response,
		"count":   len(response),
	})
}
