package handlers

import (
	"net/http"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type TreasuryHandler struct {
	treasuryService *services.TreasuryService
	authService     *services.AuthService
}

func NewTreasuryHandler(treasuryService *services.TreasuryService, authService *services.AuthService) *TreasuryHandler {
	return &TreasuryHandler{
		treasuryService: treasuryService,
		authService:     authService,
	}
}

// GetPendingWithdrawal returns the caller's refund balance
// GET /api/treasury/pending
func (h *TreasuryHandler) GetPendingWithdrawal(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	amount, err := h.treasuryService.PendingWithdrawal(c.Request.Context(), user.WalletAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet": user.WalletAddress,
		"amount": amount,
	})
}

// Withdraw drains the caller's refund balance to their wallet
// POST /api/treasury/withdraw
func (h *TreasuryHandler) Withdraw(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	amount, err := h.treasuryService.Withdraw(c.Request.Context(), user.WalletAddress)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet": user.WalletAddress,
		"amount": amount,
	})
}

// GetLockedFunds reports escrow obligations per rail
// GET /api/admin/treasury/locked
func (h *TreasuryHandler) GetLockedFunds(c *gin.Context) {
	native, err := h.treasuryService.LockedNative(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute locked funds"})
		return
	}

	token, err := h.treasuryService.LockedToken(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute locked funds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"native_locked": native,
		"token_locked":  token,
	})
}

// EmergencyWithdraw moves unlocked escrow funds to a destination wallet
// POST /api/admin/treasury/emergency-withdraw
func (h *TreasuryHandler) EmergencyWithdraw(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req struct {
		Rail   models.CurrencyRail `json:"rail" binding:"required"`
		To     string              `json:"to" binding:"required"`
		Amount int64               `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txHash, err := h.treasuryService.EmergencyWithdraw(c.Request.Context(), user, req.Rail, req.To, req.Amount)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tx_hash": txHash,
		"amount":  req.Amount,
	})
}
