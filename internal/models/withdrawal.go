package models

import (
	"time"
)

// PendingWithdrawal is the native-rail pull-refund ledger. When a bidder
// is outbid on a native-rail auction their escrowed amount is credited
// here instead of being pushed back, and only the owner's own withdrawal
// call drains it.
type PendingWithdrawal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Wallet    string    `gorm:"size:64;not null;uniqueIndex" json:"wallet"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PendingWithdrawal) TableName() string {
	return "pending_withdrawals"
}
