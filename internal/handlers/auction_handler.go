package handlers

import (
	"net/http"
	"strconv"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"
	"nft-marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
	authService    *services.AuthService
}

func NewAuctionHandler(auctionService *services.AuctionService, authService *services.AuthService) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		authService:    authService,
	}
}

// CreateAuction creates a new auction
// POST /api/auctions
func (h *AuctionHandler) CreateAuction(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req models.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auction, err := h.auctionService.CreateAuction(c.Request.Context(), user, &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, auction)
}

// GetAuction retrieves an auction by ID
// GET /api/auctions/:id
func (h *AuctionHandler) GetAuction(c *gin.Context) {
	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	auction, err := h.auctionService.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
		return
	}

	c.JSON(http.StatusOK, auction)
}

// ListAuctions lists auctions with optional filters
// GET /api/auctions?status=&collection=&category=&rail=&limit=&offset=
func (h *AuctionHandler) ListAuctions(c *gin.Context) {
	filter := repository.AuctionFilter{
		Status:     models.AuctionStatus(c.Query("status")),
		Collection: c.Query("collection"),
		Category:   c.Query("category"),
		Rail:       models.CurrencyRail(c.Query("rail")),
	}
	limit, offset := parsePagination(c)

	auctions, err := h.auctionService.ListAuctions(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list auctions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auctions": auctions})
}

// PlaceBid places a bid on an auction
// POST /api/auctions/:id/bids
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	var req models.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auction, err := h.auctionService.PlaceBid(c.Request.Context(), user, auctionID, &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, auction)
}

// GetBidHistory retrieves the bid history for an auction
// GET /api/auctions/:id/bids
func (h *AuctionHandler) GetBidHistory(c *gin.Context) {
	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	bids, err := h.auctionService.GetBidHistory(c.Request.Context(), auctionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bid history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// Settle finalizes an expired auction. Open to any caller.
// POST /api/auctions/:id/settle
func (h *AuctionHandler) Settle(c *gin.Context) {
	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	auction, err := h.auctionService.Settle(c.Request.Context(), auctionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, auction)
}

// Cancel withdraws a bid-free auction
// POST /api/auctions/:id/cancel
func (h *AuctionHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	auction, err := h.auctionService.Cancel(c.Request.Context(), user, auctionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, auction)
}

// parseID reads the :id path parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit/offset query parameters with defaults
func parsePagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
