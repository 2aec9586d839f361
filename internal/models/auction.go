package models

import (
	"time"
)

type AuctionStatus string

const (
	AuctionStatusActive    AuctionStatus = "ACTIVE"
	AuctionStatusEnded     AuctionStatus = "ENDED"
	AuctionStatusCancelled AuctionStatus = "CANCELLED"
)

type CurrencyRail string

const (
	RailNative CurrencyRail = "NATIVE"
	RailToken  CurrencyRail = "TOKEN"
)

// Auction represents a single time-boxed ascending-price auction.
// HighestBid only moves up while the auction is ACTIVE; once IsSettled
// is set no further bids or settlement attempts are accepted.
type Auction struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	SellerID       uint          `gorm:"not null;index" json:"seller_id"`
	SellerWallet   string        `gorm:"size:64;not null;index" json:"seller_wallet"`
	Collection     string        `gorm:"size:64;not null;index" json:"collection"`
	AssetID        string        `gorm:"size:128;not null" json:"asset_id"`
	ReservePrice   int64         `gorm:"not null" json:"reserve_price"`
	BuyNowPrice    int64         `gorm:"not null;default:0" json:"buy_now_price"` // 0 = disabled
	StartTime      time.Time     `gorm:"not null" json:"start_time"`
	EndTime        time.Time     `gorm:"not null;index" json:"end_time"` // extends on anti-snipe
	HighestBidder  *string       `gorm:"size:64" json:"highest_bidder"`
	HighestBid     int64         `gorm:"not null;default:0" json:"highest_bid"`
	IsSettled      bool          `gorm:"not null;default:false" json:"is_settled"`
	Status         AuctionStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	RoyaltyBps     int64         `gorm:"not null;default:0" json:"royalty_bps"` // snapshot at creation
	AssetKind      string        `gorm:"size:50" json:"asset_kind"`
	Category       string        `gorm:"size:50;index" json:"category"`
	Rail           CurrencyRail  `gorm:"size:10;not null;default:NATIVE" json:"rail"`
	CustodyTxHash  *string       `gorm:"size:255" json:"custody_tx_hash"`
	ReleaseTxHash  *string       `gorm:"size:255" json:"release_tx_hash"`
	CreatedAt      time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	SettledAt      *time.Time    `json:"settled_at"`
	CancelledAt    *time.Time    `json:"cancelled_at"`
}

func (Auction) TableName() string {
	return "auctions"
}

// CreateAuctionRequest is the payload for creating an auction
type CreateAuctionRequest struct {
	Collection      string       `json:"collection" binding:"required"`
	AssetID         string       `json:"asset_id" binding:"required"`
	ReservePrice    int64        `json:"reserve_price" binding:"required"`
	BuyNowPrice     int64        `json:"buy_now_price"`
	DurationSeconds int64        `json:"duration_seconds" binding:"required"`
	RoyaltyBps      int64        `json:"royalty_bps"`
	AssetKind       string       `json:"asset_kind"`
	Category        string       `json:"category"`
	Rail            CurrencyRail `json:"rail"`
}

// PlaceBidRequest is the payload for placing a bid
type PlaceBidRequest struct {
	Amount    int64        `json:"amount" binding:"required"`
	Rail      CurrencyRail `json:"rail" binding:"required"`
	DepositTx string       `json:"deposit_tx"`
	MaxBid    int64        `json:"max_bid"` // optional declared ceiling, intent only
}
