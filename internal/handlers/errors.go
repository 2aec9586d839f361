package handlers

import (
	"errors"
	"net/http"

	"nft-marketplace/internal/services"

	"gorm.io/gorm"
)

// statusForError maps service errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotSeller),
		errors.Is(err, services.ErrNotOperator),
		errors.Is(err, services.ErrNotRegistrar),
		errors.Is(err, services.ErrSellerCannotBid),
		errors.Is(err, services.ErrSellerCannotBuy):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadySettled),
		errors.Is(err, services.ErrAuctionNotActive),
		errors.Is(err, services.ErrAuctionNotExpired),
		errors.Is(err, services.ErrListingNotActive),
		errors.Is(err, services.ErrBidsExist),
		errors.Is(err, services.ErrDepositReused):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
