package models

import (
	"time"

	"github.com/google/uuid"
)

// Bid is one row of the append-only per-auction bid history.
// Rows are never updated or deleted; they exist for audit only and
// carry no control-flow state.
type Bid struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID uint         `gorm:"not null;index" json:"auction_id"`
	Bidder    string       `gorm:"size:64;not null;index" json:"bidder"`
	Amount    int64        `gorm:"not null" json:"amount"`
	Rail      CurrencyRail `gorm:"size:10;not null" json:"rail"`
	CreatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Bid) TableName() string {
	return "bids"
}

// MaxBid stores a bidder's self-declared ceiling for one auction.
// The engine records the intent for client-side auto-bidders but never
// places bids on the bidder's behalf.
type MaxBid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuctionID uint      `gorm:"not null;uniqueIndex:idx_max_bid_auction_bidder" json:"auction_id"`
	Bidder    string    `gorm:"size:64;not null;uniqueIndex:idx_max_bid_auction_bidder" json:"bidder"`
	Ceiling   int64     `gorm:"not null" json:"ceiling"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MaxBid) TableName() string {
	return "max_bids"
}
