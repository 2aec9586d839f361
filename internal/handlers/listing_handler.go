package handlers

import (
	"net/http"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"
	"nft-marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingService *services.ListingService
	authService    *services.AuthService
}

func NewListingHandler(listingService *services.ListingService, authService *services.AuthService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		authService:    authService,
	}
}

// CreateListing creates a fixed-price listing
// POST /api/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), user, &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// GetListing retrieves a listing by ID
// GET /api/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}

	listing, err := h.listingService.GetListing(c.Request.Context(), listingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// ListListings lists listings with optional filters
// GET /api/listings?active=&collection=&category=&rail=&limit=&offset=
func (h *ListingHandler) ListListings(c *gin.Context) {
	filter := repository.ListingFilter{
		ActiveOnly: c.Query("active") == "true",
		Collection: c.Query("collection"),
		Category:   c.Query("category"),
		Rail:       models.CurrencyRail(c.Query("rail")),
	}
	limit, offset := parsePagination(c)

	listings, err := h.listingService.ListListings(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Buy purchases a listing at its asking price
// POST /api/listings/:id/buy
func (h *ListingHandler) Buy(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	listingID, ok := parseID(c)
	if !ok {
		return
	}

	var req models.BuyListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.Buy(c.Request.Context(), user, listingID, &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Edit changes the asking price of an active listing
// PUT /api/listings/:id
func (h *ListingHandler) Edit(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	listingID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Price int64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.Edit(c.Request.Context(), user, listingID, req.Price)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Cancel withdraws an active listing and returns the asset
// POST /api/listings/:id/cancel
func (h *ListingHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	listingID, ok := parseID(c)
	if !ok {
		return
	}

	listing, err := h.listingService.Cancel(c.Request.Context(), user, listingID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}
