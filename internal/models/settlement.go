package models

import (
	"time"

	"github.com/google/uuid"
)

type SettlementTxType string

const (
	SettlementTxTypeDeposit       SettlementTxType = "DEPOSIT"
	SettlementTxTypeRefund        SettlementTxType = "REFUND"
	SettlementTxTypeFee           SettlementTxType = "FEE"
	SettlementTxTypeRoyalty       SettlementTxType = "ROYALTY"
	SettlementTxTypePayout        SettlementTxType = "PAYOUT"
	SettlementTxTypeWithdrawal    SettlementTxType = "WITHDRAWAL"
	SettlementTxTypeAssetTransfer SettlementTxType = "ASSET_TRANSFER"
	SettlementTxTypeEmergency     SettlementTxType = "EMERGENCY_WITHDRAWAL"
)

type SettlementTxStatus string

const (
	SettlementTxStatusPending   SettlementTxStatus = "PENDING"
	SettlementTxStatusConfirmed SettlementTxStatus = "CONFIRMED"
	SettlementTxStatusFailed    SettlementTxStatus = "FAILED"
)

// SettlementTransaction is one audit row of fund or asset movement
// produced by bidding, settlement, refunds and withdrawals.
type SettlementTransaction struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID *uint              `gorm:"index" json:"auction_id,omitempty"`
	ListingID *uint              `gorm:"index" json:"listing_id,omitempty"`
	TxType    SettlementTxType   `gorm:"size:30;not null;index;uniqueIndex:idx_settlement_tx_dedup" json:"tx_type"`
	Wallet    string             `gorm:"size:64;not null;index" json:"wallet"`
	Amount    int64              `gorm:"not null" json:"amount"`
	Rail      CurrencyRail       `gorm:"size:10;not null" json:"rail"`
	TxHash    *string            `gorm:"size:255;uniqueIndex:idx_settlement_tx_dedup" json:"tx_hash,omitempty"`
	Status    SettlementTxStatus `gorm:"size:20;not null;default:CONFIRMED" json:"status"`
	CreatedAt time.Time          `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (SettlementTransaction) TableName() string {
	return "settlement_transactions"
}
