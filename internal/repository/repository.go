package repository

import (
	"context"

	"nft-marketplace/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
// Used by the settlement engine so every row written during one
// settlement commits or rolls back together.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Transaction runs fn inside a single database transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// GetOrCreateUserByWallet returns the user for a wallet address,
// creating it on first login.
func (r *Repository) GetOrCreateUserByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where(models.User{WalletAddress: wallet}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPlatformConfig returns the settlement parameter row, creating the
// seeded default on first access.
func (r *Repository) GetPlatformConfig(ctx context.Context, defaults models.PlatformConfig) (*models.PlatformConfig, error) {
	var cfg models.PlatformConfig
	err := r.db.WithContext(ctx).
		Where(models.PlatformConfig{ID: 1}).
		Attrs(defaults).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SavePlatformConfig persists operator changes to settlement parameters
func (r *Repository) SavePlatformConfig(ctx context.Context, cfg *models.PlatformConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

// CreateSettlementTransaction appends one audit row of fund/asset movement
func (r *Repository) CreateSettlementTransaction(ctx context.Context, tx *models.SettlementTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// DepositTxSeen reports whether a deposit signature already backs an
// accepted bid or purchase. The unique index on (tx_type, tx_hash)
// covers concurrent writers racing past this check.
func (r *Repository) DepositTxSeen(ctx context.Context, txHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SettlementTransaction{}).
		Where("tx_type = ? AND tx_hash = ?", models.SettlementTxTypeDeposit, txHash).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSettlementTransactions lists audit rows for one auction
func (r *Repository) GetSettlementTransactions(ctx context.Context, auctionID uint) ([]*models.SettlementTransaction, error) {
	var txs []*models.SettlementTransaction
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
