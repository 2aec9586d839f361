package models

import (
	"time"
)

// FixedPriceListing represents a one-shot fixed-price sale.
// Once IsActive flips to false (bought or cancelled) the listing is frozen.
type FixedPriceListing struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	SellerID     uint         `gorm:"not null;index" json:"seller_id"`
	SellerWallet string       `gorm:"size:64;not null;index" json:"seller_wallet"`
	Collection   string       `gorm:"size:64;not null;index" json:"collection"`
	AssetID      string       `gorm:"size:128;not null" json:"asset_id"`
	Price        int64        `gorm:"not null" json:"price"` // seller-editable while active
	IsActive     bool         `gorm:"not null;default:true;index" json:"is_active"`
	RoyaltyBps   int64        `gorm:"not null;default:0" json:"royalty_bps"`
	Category     string       `gorm:"size:50;index" json:"category"`
	Rail         CurrencyRail `gorm:"size:10;not null;default:NATIVE" json:"rail"`
	BuyerWallet  *string      `gorm:"size:64" json:"buyer_wallet"`
	CreatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	ClosedAt     *time.Time   `json:"closed_at"`
}

func (FixedPriceListing) TableName() string {
	return "fixed_price_listings"
}

// CreateListingRequest is the payload for creating a fixed-price listing
type CreateListingRequest struct {
	Collection string       `json:"collection" binding:"required"`
	AssetID    string       `json:"asset_id" binding:"required"`
	Price      int64        `json:"price" binding:"required"`
	RoyaltyBps int64        `json:"royalty_bps"`
	Category   string       `json:"category"`
	Rail       CurrencyRail `json:"rail"`
}

// BuyListingRequest is the payload for buying a listing
type BuyListingRequest struct {
	Amount    int64        `json:"amount" binding:"required"`
	Rail      CurrencyRail `json:"rail" binding:"required"`
	DepositTx string       `json:"deposit_tx"`
}
