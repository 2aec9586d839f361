package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"nft-marketplace/internal/config"
	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"

	"github.com/google/uuid"
)

// ListingService owns the one-shot fixed-price sale lifecycle. Buying
// deactivates the listing and runs the same settlement distribution as a
// won auction; edit and cancel are seller-only while still active.
type ListingService struct {
	repo       *repository.Repository
	settlement *SettlementService
	custody    AssetCustody
	royalty    RoyaltyPolicy
	rails      map[models.CurrencyRail]PaymentRail
	mirror     *MirrorNotifier
	cfg        config.MarketplaceConfig

	mu sync.Mutex
}

func NewListingService(
	repo *repository.Repository,
	settlement *SettlementService,
	custody AssetCustody,
	royalty RoyaltyPolicy,
	rails map[models.CurrencyRail]PaymentRail,
	mirror *MirrorNotifier,
	cfg config.MarketplaceConfig,
) *ListingService {
	return &ListingService{
		repo:       repo,
		settlement: settlement,
		custody:    custody,
		royalty:    royalty,
		rails:      rails,
		mirror:     mirror,
		cfg:        cfg,
	}
}

// CreateListing locks the seller's asset into custody and opens the
// fixed-price sale
func (s *ListingService) CreateListing(ctx context.Context, seller *models.User, req *models.CreateListingRequest) (*models.FixedPriceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	rail := req.Rail
	if rail == "" {
		rail = models.RailNative
	}
	if _, ok := s.rails[rail]; !ok {
		return nil, ErrUnknownRail
	}

	royaltyBps, creator, err := s.resolveRoyalty(ctx, seller.WalletAddress, req.AssetID, req.RoyaltyBps)
	if err != nil {
		return nil, err
	}

	listing := &models.FixedPriceListing{
		SellerID:     seller.ID,
		SellerWallet: seller.WalletAddress,
		Collection:   req.Collection,
		AssetID:      req.AssetID,
		Price:        req.Price,
		IsActive:     true,
		RoyaltyBps:   royaltyBps,
		Category:     req.Category,
		Rail:         rail,
	}

	var custodyLocked bool
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		open, err := txRepo.HasOpenSaleForAsset(ctx, req.Collection, req.AssetID)
		if err != nil {
			return fmt.Errorf("failed to check open sales: %w", err)
		}
		if open {
			return ErrAssetAlreadyListed
		}

		// Custody moves only after the exclusivity check passes.
		if _, err := s.custody.TransferToEscrow(ctx, seller.WalletAddress, req.AssetID); err != nil {
			return fmt.Errorf("failed to lock asset into custody: %w", err)
		}
		custodyLocked = true

		if err := txRepo.CreateListing(ctx, listing); err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		if err := txRepo.RecordAssetCreator(ctx, req.Collection, req.AssetID, creator); err != nil {
			return fmt.Errorf("failed to record asset creator: %w", err)
		}
		return nil
	})
	if err != nil {
		// The database rolls back but an executed custody transfer does
		// not, so return the asset to the seller before surfacing the
		// error.
		if custodyLocked {
			if _, relErr := s.custody.ReleaseFromEscrow(ctx, seller.WalletAddress, req.AssetID); relErr != nil {
				log.Printf("[Listing] Failed to release asset %s after aborted creation: %v", req.AssetID, relErr)
			}
		}
		return nil, err
	}

	log.Printf("[Listing] Listing %d created: %s/%s price=%d rail=%s",
		listing.ID, listing.Collection, listing.AssetID, listing.Price, listing.Rail)

	s.mirror.RecordListing(ctx, listing)
	return listing, nil
}

// Buy purchases an active listing at its current price
func (s *ListingService) Buy(ctx context.Context, buyer *models.User, listingID uint, req *models.BuyListingRequest) (*models.FixedPriceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listing *models.FixedPriceListing
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		listing, err = txRepo.GetListingForUpdate(ctx, listingID)
		if err != nil {
			return err
		}

		if !listing.IsActive {
			return ErrListingNotActive
		}
		if buyer.WalletAddress == listing.SellerWallet {
			return ErrSellerCannotBuy
		}
		if req.Rail != listing.Rail {
			return ErrCurrencyMismatch
		}
		if req.Amount < listing.Price {
			return ErrInsufficientPayment
		}

		rail := s.rails[listing.Rail]
		depositTx, err := rail.CollectDeposit(ctx, txRepo, buyer.WalletAddress, listing.Price, req.DepositTx)
		if err != nil {
			return err
		}

		// Deactivate before any outbound transfer.
		now := time.Now()
		buyerWallet := buyer.WalletAddress
		listing.IsActive = false
		listing.BuyerWallet = &buyerWallet
		listing.ClosedAt = &now
		if err := txRepo.UpdateListing(ctx, listing); err != nil {
			return fmt.Errorf("failed to close listing: %w", err)
		}

		listingRef := listing.ID
		deposit := &models.SettlementTransaction{
			ID:        uuid.New(),
			ListingID: &listingRef,
			TxType:    models.SettlementTxTypeDeposit,
			Wallet:    buyerWallet,
			Amount:    listing.Price,
			Rail:      listing.Rail,
			TxHash:    depositTx,
			Status:    models.SettlementTxStatusConfirmed,
			CreatedAt: now,
		}
		if err := txRepo.CreateSettlementTransaction(ctx, deposit); err != nil {
			return fmt.Errorf("failed to record deposit: %w", err)
		}

		return s.settlement.Distribute(ctx, txRepo, Sale{
			ListingID:  &listingRef,
			Collection: listing.Collection,
			AssetID:    listing.AssetID,
			Seller:     listing.SellerWallet,
			Buyer:      buyerWallet,
			Amount:     listing.Price,
			RoyaltyBps: listing.RoyaltyBps,
			Rail:       listing.Rail,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Listing] Listing %d bought by %s for %d", listing.ID, buyer.WalletAddress, listing.Price)

	s.mirror.RecordSettled(ctx, listing)
	return listing, nil
}

// Edit changes the price of a still-active listing
func (s *ListingService) Edit(ctx context.Context, caller *models.User, listingID uint, newPrice int64) (*models.FixedPriceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	var listing *models.FixedPriceListing
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		listing, err = txRepo.GetListingForUpdate(ctx, listingID)
		if err != nil {
			return err
		}

		if listing.SellerWallet != caller.WalletAddress {
			return ErrNotSeller
		}
		if !listing.IsActive {
			return ErrListingNotActive
		}

		listing.Price = newPrice
		return txRepo.UpdateListing(ctx, listing)
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Cancel deactivates a listing and returns the asset to the seller
func (s *ListingService) Cancel(ctx context.Context, caller *models.User, listingID uint) (*models.FixedPriceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listing *models.FixedPriceListing
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		listing, err = txRepo.GetListingForUpdate(ctx, listingID)
		if err != nil {
			return err
		}

		if listing.SellerWallet != caller.WalletAddress {
			return ErrNotSeller
		}
		if !listing.IsActive {
			return ErrListingNotActive
		}

		now := time.Now()
		listing.IsActive = false
		listing.ClosedAt = &now
		if err := txRepo.UpdateListing(ctx, listing); err != nil {
			return fmt.Errorf("failed to close listing: %w", err)
		}

		releaseTx, err := s.custody.ReleaseFromEscrow(ctx, listing.SellerWallet, listing.AssetID)
		if err != nil {
			return fmt.Errorf("failed to return asset to seller: %w", err)
		}

		listingRef := listing.ID
		row := &models.SettlementTransaction{
			ID:        uuid.New(),
			ListingID: &listingRef,
			TxType:    models.SettlementTxTypeAssetTransfer,
			Wallet:    listing.SellerWallet,
			Amount:    0,
			Rail:      listing.Rail,
			TxHash:    &releaseTx,
			Status:    models.SettlementTxStatusConfirmed,
			CreatedAt: now,
		}
		return txRepo.CreateSettlementTransaction(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Listing] Listing %d cancelled by seller", listing.ID)

	s.mirror.RecordCanceled(ctx, listing)
	return listing, nil
}

// resolveRoyalty mirrors the auction path: explicit values are bounds
// checked, otherwise the advisory policy is consulted with a fallback to
// the platform floor.
func (s *ListingService) resolveRoyalty(ctx context.Context, seller, assetID string, requested int64) (int64, string, error) {
	if requested != 0 {
		if requested < s.cfg.RoyaltyFloorBps || requested > s.cfg.RoyaltyCapBps {
			return 0, "", ErrRoyaltyOutOfBounds
		}
		return requested, s.fallbackCreator(ctx, assetID, seller), nil
	}

	supported, err := s.royalty.SupportsRoyaltyQuery(ctx, assetID)
	if err != nil || !supported {
		if err != nil {
			log.Printf("[Listing] Royalty query failed for %s, using floor: %v", assetID, err)
		}
		return s.cfg.RoyaltyFloorBps, seller, nil
	}

	recipient, bps, err := s.royalty.RoyaltyInfo(ctx, assetID, BasisPoints)
	if err != nil {
		log.Printf("[Listing] Royalty info failed for %s, using floor: %v", assetID, err)
		return s.cfg.RoyaltyFloorBps, seller, nil
	}
	if bps < s.cfg.RoyaltyFloorBps {
		bps = s.cfg.RoyaltyFloorBps
	}
	if bps > s.cfg.RoyaltyCapBps {
		bps = s.cfg.RoyaltyCapBps
	}
	return bps, recipient, nil
}

func (s *ListingService) fallbackCreator(ctx context.Context, assetID, seller string) string {
	supported, err := s.royalty.SupportsRoyaltyQuery(ctx, assetID)
	if err != nil || !supported {
		return seller
	}
	recipient, _, err := s.royalty.RoyaltyInfo(ctx, assetID, BasisPoints)
	if err != nil || recipient == "" {
		return seller
	}
	return recipient
}

// GetListing retrieves one listing
func (s *ListingService) GetListing(ctx context.Context, listingID uint) (*models.FixedPriceListing, error) {
	return s.repo.GetListingByID(ctx, listingID)
}

// ListListings retrieves listings matching the filter
func (s *ListingService) ListListings(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*models.FixedPriceListing, error) {
	return s.repo.ListListings(ctx, filter, limit, offset)
}
