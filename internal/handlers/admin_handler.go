package handlers

import (
	"net/http"

	"nft-marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *services.AdminService
	authService  *services.AuthService
}

func NewAdminHandler(adminService *services.AdminService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		authService:  authService,
	}
}

// GetPlatformConfig returns the current fee and royalty configuration
// GET /api/admin/config
func (h *AdminHandler) GetPlatformConfig(c *gin.Context) {
	cfg, err := h.adminService.GetPlatformConfig(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load platform config"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SetFees updates the standard and platform fee rates
// PUT /api/admin/fees
func (h *AdminHandler) SetFees(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req struct {
		StandardFeeBps int64 `json:"standard_fee_bps" binding:"required"`
		PlatformFeeBps int64 `json:"platform_fee_bps" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.adminService.SetFees(c.Request.Context(), user, req.StandardFeeBps, req.PlatformFeeBps)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SetFeeRecipient updates the wallet that receives platform fees
// PUT /api/admin/fee-recipient
func (h *AdminHandler) SetFeeRecipient(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req struct {
		Recipient string `json:"recipient" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.adminService.SetFeeRecipient(c.Request.Context(), user, req.Recipient)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// AddRegistrar grants a wallet fee-tier registration rights
// POST /api/admin/registrars
func (h *AdminHandler) AddRegistrar(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.AddRegistrar(c.Request.Context(), user, req.Wallet); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registrar added"})
}

// RemoveRegistrar revokes a wallet's registration rights
// DELETE /api/admin/registrars/:wallet
func (h *AdminHandler) RemoveRegistrar(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	wallet := c.Param("wallet")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}

	if err := h.adminService.RemoveRegistrar(c.Request.Context(), user, wallet); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registrar removed"})
}

// ListRegistrars lists all authorized registrars
// GET /api/admin/registrars
func (h *AdminHandler) ListRegistrars(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	registrars, err := h.adminService.ListRegistrars(c.Request.Context(), user)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrars": registrars})
}

// SetCollectionFeeTier marks a collection as platform-originated or standard
// PUT /api/admin/collections/:collection/fee-tier
func (h *AdminHandler) SetCollectionFeeTier(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	collection := c.Param("collection")
	if collection == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection is required"})
		return
	}

	var req struct {
		PlatformOriginated bool `json:"platform_originated"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.SetCollectionFeeTier(c.Request.Context(), user, collection, req.PlatformOriginated); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fee tier updated"})
}
