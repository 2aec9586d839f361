package services

import "errors"

// Validation errors, rejected before any state mutation
var (
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidDuration   = errors.New("auction duration out of allowed range")
	ErrBuyNowBelowReserve = errors.New("buy-now price must be zero or at least the reserve price")
	ErrCurrencyMismatch  = errors.New("payment rail does not match the sale's configured rail")
	ErrUnknownRail       = errors.New("unknown currency rail")
	ErrAssetAlreadyListed = errors.New("asset is already locked into an open sale")
	ErrMissingDeposit    = errors.New("native-rail bids require a deposit transaction signature")
	ErrDepositReused     = errors.New("deposit transaction signature already backs an accepted bid")
	ErrRoyaltyOutOfBounds = errors.New("royalty percentage out of configured bounds")

	// Lifecycle errors
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrAuctionNotStarted  = errors.New("auction has not started")
	ErrAuctionExpired     = errors.New("auction bidding window has closed")
	ErrAuctionNotExpired  = errors.New("auction has not ended yet")
	ErrAlreadySettled     = errors.New("sale is already settled")
	ErrListingNotActive   = errors.New("listing is no longer active")

	// Authorization errors
	ErrNotSeller        = errors.New("caller is not the seller")
	ErrSellerCannotBid  = errors.New("seller cannot bid on their own sale")
	ErrSellerCannotBuy  = errors.New("seller cannot buy their own listing")
	ErrNotOperator      = errors.New("caller is not the platform operator")
	ErrNotRegistrar     = errors.New("caller is not an authorized registrar")

	// Economic-rule violations
	ErrBidBelowReserve    = errors.New("bid is below the reserve price")
	ErrBidBelowIncrement  = errors.New("bid is below the minimum increment over the current high bid")
	ErrInsufficientPayment = errors.New("payment amount does not cover the price")
	ErrBidsExist          = errors.New("auction already has a bid and cannot be cancelled")
	ErrNothingWithdrawable = errors.New("no pending withdrawal balance")
	ErrExceedsUnlocked    = errors.New("amount exceeds the unlocked escrow balance")
)
