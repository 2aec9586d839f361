package models

import (
	"time"
)

// PlatformConfig is the single mutable row of operator-controlled
// settlement parameters. It is read fresh at every settlement so that
// admin changes apply to sales settling after the change, while royalty
// terms stay pinned per auction/listing via their creation snapshot.
type PlatformConfig struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StandardFeeBps  int64     `gorm:"not null;default:200" json:"standard_fee_bps"`
	PlatformFeeBps  int64     `gorm:"not null;default:500" json:"platform_fee_bps"`
	FeeRecipient    string    `gorm:"size:64;not null" json:"fee_recipient"`
	RoyaltyFloorBps int64     `gorm:"not null;default:0" json:"royalty_floor_bps"`
	RoyaltyCapBps   int64     `gorm:"not null;default:1000" json:"royalty_cap_bps"`
	UpdatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PlatformConfig) TableName() string {
	return "platform_configs"
}
