package repository

import (
	"context"
	"time"

	"nft-marketplace/internal/models"

	"gorm.io/gorm/clause"
)

// CreateAuction creates a new auction
func (r *Repository) CreateAuction(ctx context.Context, auction *models.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

// GetAuctionByID retrieves an auction by ID
func (r *Repository) GetAuctionByID(ctx context.Context, auctionID uint) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).Where("id = ?", auctionID).First(&auction).Error
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// GetAuctionForUpdate retrieves an auction with a row lock so concurrent
// bids and settlement attempts on the same auction serialize at the
// database.
func (r *Repository) GetAuctionForUpdate(ctx context.Context, auctionID uint) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", auctionID).
		First(&auction).Error
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// UpdateAuction updates an auction
func (r *Repository) UpdateAuction(ctx context.Context, auction *models.Auction) error {
	return r.db.WithContext(ctx).Save(auction).Error
}

// AuctionFilter narrows ListAuctions results
type AuctionFilter struct {
	Status     models.AuctionStatus
	Collection string
	Category   string
	Rail       models.CurrencyRail
}

// ListAuctions retrieves auctions matching the filter, newest first
func (r *Repository) ListAuctions(ctx context.Context, filter AuctionFilter, limit, offset int) ([]*models.Auction, error) {
	query := r.db.WithContext(ctx).Model(&models.Auction{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Collection != "" {
		query = query.Where("collection = ?", filter.Collection)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Rail != "" {
		query = query.Where("rail = ?", filter.Rail)
	}

	var auctions []*models.Auction
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&auctions).Error
	if err != nil {
		return nil, err
	}
	return auctions, nil
}

// GetExpiredUnsettledAuctions finds active auctions past their end time
// that have not been settled yet
func (r *Repository) GetExpiredUnsettledAuctions(ctx context.Context, now time.Time, limit int) ([]*models.Auction, error) {
	var auctions []*models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_settled = ? AND end_time < ?",
			models.AuctionStatusActive, false, now).
		Order("end_time ASC").
		Limit(limit).
		Find(&auctions).Error
	if err != nil {
		return nil, err
	}
	return auctions, nil
}

// SumHighestBidsByRail returns the total escrowed bid amount across all
// active auctions on one currency rail
func (r *Repository) SumHighestBidsByRail(ctx context.Context, rail models.CurrencyRail) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("status = ? AND rail = ?", models.AuctionStatusActive, rail).
		Select("COALESCE(SUM(highest_bid), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// HasOpenSaleForAsset reports whether the asset is already locked into an
// active auction or listing
func (r *Repository) HasOpenSaleForAsset(ctx context.Context, collection, assetID string) (bool, error) {
	var auctionCount int64
	err := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("collection = ? AND asset_id = ? AND status = ?",
			collection, assetID, models.AuctionStatusActive).
		Count(&auctionCount).Error
	if err != nil {
		return false, err
	}
	if auctionCount > 0 {
		return true, nil
	}

	var listingCount int64
	err = r.db.WithContext(ctx).
		Model(&models.FixedPriceListing{}).
		Where("collection = ? AND asset_id = ? AND is_active = ?",
			collection, assetID, true).
		Count(&listingCount).Error
	if err != nil {
		return false, err
	}
	return listingCount > 0, nil
}

// CreateBid appends a bid history row
func (r *Repository) CreateBid(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// GetBidsByAuction retrieves the full bid history for an auction in
// arrival order
func (r *Repository) GetBidsByAuction(ctx context.Context, auctionID uint) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// UpsertMaxBid records or updates a bidder's declared ceiling for one auction
func (r *Repository) UpsertMaxBid(ctx context.Context, maxBid *models.MaxBid) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "auction_id"}, {Name: "bidder"}},
			DoUpdates: clause.AssignmentColumns([]string{"ceiling", "updated_at"}),
		}).
		Create(maxBid).Error
}
