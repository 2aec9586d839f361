package repository

import (
	"context"
	"errors"

	"nft-marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreditPendingWithdrawal adds an outbid refund to a wallet's pull-payment
// ledger balance
func (r *Repository) CreditPendingWithdrawal(ctx context.Context, wallet string, amount int64) error {
	row := models.PendingWithdrawal{
		Wallet: wallet,
		Amount: amount,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"amount": gorm.Expr("pending_withdrawals.amount + ?", amount),
			}),
		}).
		Create(&row).Error
}

// GetPendingWithdrawal returns a wallet's withdrawable balance
func (r *Repository) GetPendingWithdrawal(ctx context.Context, wallet string) (int64, error) {
	var row models.PendingWithdrawal
	err := r.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

// DrainPendingWithdrawal zeroes a wallet's ledger balance under a row
// lock and returns the drained amount. Returns 0 when nothing is owed.
func (r *Repository) DrainPendingWithdrawal(ctx context.Context, wallet string) (int64, error) {
	var row models.PendingWithdrawal
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wallet = ?", wallet).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	amount := row.Amount
	if amount == 0 {
		return 0, nil
	}

	row.Amount = 0
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return 0, err
	}
	return amount, nil
}

// SumPendingWithdrawals returns the total owed across the whole ledger
func (r *Repository) SumPendingWithdrawals(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.PendingWithdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
