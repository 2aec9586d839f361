package repository

import (
	"context"

	"nft-marketplace/internal/models"

	"gorm.io/gorm/clause"
)

// CreateListing creates a new fixed-price listing
func (r *Repository) CreateListing(ctx context.Context, listing *models.FixedPriceListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// GetListingByID retrieves a listing by ID
func (r *Repository) GetListingByID(ctx context.Context, listingID uint) (*models.FixedPriceListing, error) {
	var listing models.FixedPriceListing
	err := r.db.WithContext(ctx).Where("id = ?", listingID).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingForUpdate retrieves a listing with a row lock so a purchase
// and a seller edit cannot interleave
func (r *Repository) GetListingForUpdate(ctx context.Context, listingID uint) (*models.FixedPriceListing, error) {
	var listing models.FixedPriceListing
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", listingID).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListing updates a listing
func (r *Repository) UpdateListing(ctx context.Context, listing *models.FixedPriceListing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// ListingFilter narrows ListListings results
type ListingFilter struct {
	ActiveOnly bool
	Collection string
	Category   string
	Rail       models.CurrencyRail
}

// ListListings retrieves listings matching the filter, newest first
func (r *Repository) ListListings(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.FixedPriceListing, error) {
	query := r.db.WithContext(ctx).Model(&models.FixedPriceListing{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
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

	var listings []*models.FixedPriceListing
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
