package models

import (
	"time"
)

// AssetCreator maps (collection, asset) to the original creator wallet.
// Set on the first listing or auction of an asset and never overwritten;
// royalties are routed to this wallet for the life of the asset.
type AssetCreator struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Collection    string    `gorm:"size:64;not null;uniqueIndex:idx_asset_creator" json:"collection"`
	AssetID       string    `gorm:"size:128;not null;uniqueIndex:idx_asset_creator" json:"asset_id"`
	CreatorWallet string    `gorm:"size:64;not null;index" json:"creator_wallet"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AssetCreator) TableName() string {
	return "asset_creators"
}

// CollectionFeeTier flags a collection as platform-originated, which
// moves its sales to the higher platform fee tier. Only the operator or
// an authorized registrar may write rows.
type CollectionFeeTier struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Collection         string    `gorm:"size:64;not null;uniqueIndex" json:"collection"`
	PlatformOriginated bool      `gorm:"not null;default:false" json:"platform_originated"`
	RegisteredBy       string    `gorm:"size:64" json:"registered_by"`
	CreatedAt          time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CollectionFeeTier) TableName() string {
	return "collection_fee_tiers"
}

// AuthorizedRegistrar is a wallet allowed to flag collections in the
// fee-tier registry, typically the collection-launch system.
type AuthorizedRegistrar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Wallet    string    `gorm:"size:64;not null;uniqueIndex" json:"wallet"`
	AddedBy   string    `gorm:"size:64" json:"added_by"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuthorizedRegistrar) TableName() string {
	return "authorized_registrars"
}
