package repository

import (
	"context"
	"errors"

	"nft-marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordAssetCreator registers the original creator of an asset on its
// first sale. The write is insert-only: an existing row is never
// overwritten, so royalty routing for an asset is fixed forever.
func (r *Repository) RecordAssetCreator(ctx context.Context, collection, assetID, creatorWallet string) error {
	creator := models.AssetCreator{
		Collection:    collection,
		AssetID:       assetID,
		CreatorWallet: creatorWallet,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "asset_id"}},
			DoNothing: true,
		}).
		Create(&creator).Error
}

// GetAssetCreator returns the registered creator wallet for an asset, or
// empty string if none is registered
func (r *Repository) GetAssetCreator(ctx context.Context, collection, assetID string) (string, error) {
	var creator models.AssetCreator
	err := r.db.WithContext(ctx).
		Where("collection = ? AND asset_id = ?", collection, assetID).
		First(&creator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return creator.CreatorWallet, nil
}

// IsPlatformOriginated reports whether a collection is flagged for the
// higher platform fee tier
func (r *Repository) IsPlatformOriginated(ctx context.Context, collection string) (bool, error) {
	var tier models.CollectionFeeTier
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		First(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tier.PlatformOriginated, nil
}

// UpsertFeeTier sets or clears a collection's platform-originated flag
func (r *Repository) UpsertFeeTier(ctx context.Context, tier *models.CollectionFeeTier) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}},
			DoUpdates: clause.AssignmentColumns([]string{"platform_originated", "registered_by", "updated_at"}),
		}).
		Create(tier).Error
}

// IsAuthorizedRegistrar reports whether a wallet may write fee-tier rows
func (r *Repository) IsAuthorizedRegistrar(ctx context.Context, wallet string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuthorizedRegistrar{}).
		Where("wallet = ?", wallet).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddRegistrar authorizes a wallet to write fee-tier rows
func (r *Repository) AddRegistrar(ctx context.Context, registrar *models.AuthorizedRegistrar) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet"}},
			DoNothing: true,
		}).
		Create(registrar).Error
}

// RemoveRegistrar revokes a registrar wallet
func (r *Repository) RemoveRegistrar(ctx context.Context, wallet string) error {
	return r.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Delete(&models.AuthorizedRegistrar{}).Error
}

// ListRegistrars returns all authorized registrar wallets
func (r *Repository) ListRegistrars(ctx context.Context) ([]*models.AuthorizedRegistrar, error) {
	var registrars []*models.AuthorizedRegistrar
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&registrars).Error
	if err != nil {
		return nil, err
	}
	return registrars, nil
}
