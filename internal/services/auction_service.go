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

// AuctionService owns the auction lifecycle: creation with custody lock,
// bid acceptance with reserve/increment/buy-now/anti-snipe rules, public
// settlement and seller cancellation. A service-level mutex wraps every
// mutator so a re-entrant call through an external adapter can never
// observe state mid-operation; the database row lock serializes
// concurrent processes on the same auction.
type AuctionService struct {
	repo       *repository.Repository
	settlement *SettlementService
	custody    AssetCustody
	royalty    RoyaltyPolicy
	rails      map[models.CurrencyRail]PaymentRail
	mirror     *MirrorNotifier
	cfg        config.MarketplaceConfig

	mu sync.Mutex
}

func NewAuctionService(
	repo *repository.Repository,
	settlement *SettlementService,
	custody AssetCustody,
	royalty RoyaltyPolicy,
	rails map[models.CurrencyRail]PaymentRail,
	mirror *MirrorNotifier,
	cfg config.MarketplaceConfig,
) *AuctionService {
	return &AuctionService{
		repo:       repo,
		settlement: settlement,
		custody:    custody,
		royalty:    royalty,
		rails:      rails,
		mirror:     mirror,
		cfg:        cfg,
	}
}

// CreateAuction locks the seller's asset into custody and opens the
// auction
func (s *AuctionService) CreateAuction(ctx context.Context, seller *models.User, req *models.CreateAuctionRequest) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ReservePrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.BuyNowPrice != 0 && req.BuyNowPrice < req.ReservePrice {
		return nil, ErrBuyNowBelowReserve
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	if duration < s.cfg.MinDuration || duration > s.cfg.MaxDuration {
		return nil, ErrInvalidDuration
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

	now := time.Now()
	auction := &models.Auction{
		SellerID:     seller.ID,
		SellerWallet: seller.WalletAddress,
		Collection:   req.Collection,
		AssetID:      req.AssetID,
		ReservePrice: req.ReservePrice,
		BuyNowPrice:  req.BuyNowPrice,
		StartTime:    now,
		EndTime:      now.Add(duration),
		Status:       models.AuctionStatusActive,
		RoyaltyBps:   royaltyBps,
		AssetKind:    req.AssetKind,
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
		custodyTx, err := s.custody.TransferToEscrow(ctx, seller.WalletAddress, req.AssetID)
		if err != nil {
			return fmt.Errorf("failed to lock asset into custody: %w", err)
		}
		custodyLocked = true
		auction.CustodyTxHash = &custodyTx

		if err := txRepo.CreateAuction(ctx, auction); err != nil {
			return fmt.Errorf("failed to create auction: %w", err)
		}
		// First sale of an asset pins its creator forever.
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
				log.Printf("[Auction] Failed to release asset %s after aborted creation: %v", req.AssetID, relErr)
			}
		}
		return nil, err
	}

	log.Printf("[Auction] Auction %d created: %s/%s reserve=%d buyNow=%d rail=%s",
		auction.ID, auction.Collection, auction.AssetID,
		auction.ReservePrice, auction.BuyNowPrice, auction.Rail)

	s.mirror.RecordAuction(ctx, auction)
	return auction, nil
}

// PlaceBid validates and applies one bid. Returns the updated auction;
// a bid at or above the buy-now price settles the auction immediately.
func (s *AuctionService) PlaceBid(ctx context.Context, bidder *models.User, auctionID uint, req *models.PlaceBidRequest) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var auction *models.Auction
	var bid *models.Bid
	var settled bool

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		auction, err = txRepo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := s.validateBid(auction, bidder.WalletAddress, req, now); err != nil {
			return err
		}

		amount := req.Amount
		buyNow := auction.BuyNowPrice > 0 && amount >= auction.BuyNowPrice
		if buyNow {
			// Anything above the buy-now price is clamped, never escrowed.
			amount = auction.BuyNowPrice
		}

		rail := s.rails[auction.Rail]

		// Bring the bidder's funds under escrow before touching state.
		depositTx, err := rail.CollectDeposit(ctx, txRepo, bidder.WalletAddress, amount, req.DepositTx)
		if err != nil {
			return err
		}

		// Displaced bidder gets their escrow back, by ledger credit on
		// the native rail and by immediate push on the token rail.
		if auction.HighestBidder != nil {
			refundTx, err := rail.RefundOutbid(ctx, txRepo, *auction.HighestBidder, auction.HighestBid)
			if err != nil {
				return fmt.Errorf("failed to refund outbid bidder: %w", err)
			}
			if err := s.recordAccounting(ctx, txRepo, auction, models.SettlementTxTypeRefund, *auction.HighestBidder, auction.HighestBid, refundTx); err != nil {
				return err
			}
		}

		bidderWallet := bidder.WalletAddress
		auction.HighestBidder = &bidderWallet
		auction.HighestBid = amount

		// Anti-snipe: a late non-buy-now bid pushes the close out by a
		// full window from the bid's timestamp. Unbounded on purpose.
		if !buyNow && auction.EndTime.Sub(now) <= s.cfg.AntiSnipeWindow {
			auction.EndTime = now.Add(s.cfg.AntiSnipeWindow)
		}

		if err := txRepo.UpdateAuction(ctx, auction); err != nil {
			return fmt.Errorf("failed to update auction: %w", err)
		}

		bid = &models.Bid{
			ID:        uuid.New(),
			AuctionID: auction.ID,
			Bidder:    bidderWallet,
			Amount:    amount,
			Rail:      auction.Rail,
			CreatedAt: now,
		}
		if err := txRepo.CreateBid(ctx, bid); err != nil {
			return fmt.Errorf("failed to record bid: %w", err)
		}

		if err := s.recordAccounting(ctx, txRepo, auction, models.SettlementTxTypeDeposit, bidderWallet, amount, depositTx); err != nil {
			return err
		}

		if req.MaxBid > 0 {
			maxBid := &models.MaxBid{
				AuctionID: auction.ID,
				Bidder:    bidderWallet,
				Ceiling:   req.MaxBid,
				UpdatedAt: now,
			}
			if err := txRepo.UpsertMaxBid(ctx, maxBid); err != nil {
				return fmt.Errorf("failed to record max bid: %w", err)
			}
		}

		if buyNow {
			if err := s.settleLocked(ctx, txRepo, auction, now); err != nil {
				return err
			}
			settled = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Auction] Bid accepted on auction %d: %s amount=%d", auction.ID, bid.Bidder, bid.Amount)

	s.mirror.RecordBid(ctx, bid)
	if settled {
		s.mirror.RecordSettled(ctx, auction)
	}
	return auction, nil
}

// Settle finalizes an expired auction. Callable by anyone; the sweeper
// job uses the same path.
func (s *AuctionService) Settle(ctx context.Context, auctionID uint) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var auction *models.Auction
	var noBids bool

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		auction, err = txRepo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}

		if auction.IsSettled {
			return ErrAlreadySettled
		}
		if auction.Status != models.AuctionStatusActive {
			return ErrAuctionNotActive
		}

		now := time.Now()
		if !now.After(auction.EndTime) {
			return ErrAuctionNotExpired
		}

		noBids = auction.HighestBidder == nil
		return s.settleLocked(ctx, txRepo, auction, now)
	})
	if err != nil {
		return nil, err
	}

	if noBids {
		s.mirror.RecordCanceled(ctx, auction)
	} else {
		s.mirror.RecordSettled(ctx, auction)
	}
	return auction, nil
}

// Cancel withdraws an auction before any bid has been placed
func (s *AuctionService) Cancel(ctx context.Context, caller *models.User, auctionID uint) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var auction *models.Auction
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		auction, err = txRepo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}

		if auction.SellerWallet != caller.WalletAddress {
			return ErrNotSeller
		}
		if auction.Status != models.AuctionStatusActive {
			return ErrAuctionNotActive
		}
		// Once a bid exists cancellation is permanently disallowed, so
		// a cancel can never race the bid that would have won.
		if auction.HighestBidder != nil {
			return ErrBidsExist
		}

		now := time.Now()
		auction.Status = models.AuctionStatusCancelled
		auction.CancelledAt = &now
		if err := txRepo.UpdateAuction(ctx, auction); err != nil {
			return fmt.Errorf("failed to cancel auction: %w", err)
		}

		return s.returnAssetToSeller(ctx, txRepo, auction)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Auction] Auction %d cancelled by seller", auction.ID)

	s.mirror.RecordCanceled(ctx, auction)
	return auction, nil
}

// settleLocked finalizes an auction whose row lock is already held.
// State flips happen before any payout or custody call, so the terminal
// state is committed-or-nothing with the transfers.
func (s *AuctionService) settleLocked(ctx context.Context, txRepo *repository.Repository, auction *models.Auction, now time.Time) error {
	auction.IsSettled = true
	auction.SettledAt = &now

	if auction.HighestBidder == nil {
		// Expired with no bids: asset goes home, no fund movement.
		// Downstream indexers treat this as a cancellation.
		auction.Status = models.AuctionStatusCancelled
		auction.CancelledAt = &now
		if err := txRepo.UpdateAuction(ctx, auction); err != nil {
			return fmt.Errorf("failed to close auction: %w", err)
		}
		return s.returnAssetToSeller(ctx, txRepo, auction)
	}

	auction.Status = models.AuctionStatusEnded
	if err := txRepo.UpdateAuction(ctx, auction); err != nil {
		return fmt.Errorf("failed to close auction: %w", err)
	}

	auctionID := auction.ID
	return s.settlement.Distribute(ctx, txRepo, Sale{
		AuctionID:  &auctionID,
		Collection: auction.Collection,
		AssetID:    auction.AssetID,
		Seller:     auction.SellerWallet,
		Buyer:      *auction.HighestBidder,
		Amount:     auction.HighestBid,
		RoyaltyBps: auction.RoyaltyBps,
		Rail:       auction.Rail,
	})
}

// validateBid applies every acceptance rule without touching state
func (s *AuctionService) validateBid(auction *models.Auction, bidder string, req *models.PlaceBidRequest, now time.Time) error {
	if auction.IsSettled {
		return ErrAlreadySettled
	}
	if auction.Status != models.AuctionStatusActive {
		return ErrAuctionNotActive
	}
	if now.Before(auction.StartTime) {
		return ErrAuctionNotStarted
	}
	if !now.Before(auction.EndTime) {
		return ErrAuctionExpired
	}
	if bidder == auction.SellerWallet {
		return ErrSellerCannotBid
	}
	if req.Rail != auction.Rail {
		return ErrCurrencyMismatch
	}
	if req.Amount <= 0 {
		return ErrInvalidPrice
	}

	if auction.HighestBidder == nil {
		if req.Amount < auction.ReservePrice {
			return ErrBidBelowReserve
		}
		return nil
	}
	if req.Amount < MinNextBid(auction.HighestBid) {
		return ErrBidBelowIncrement
	}
	return nil
}

// returnAssetToSeller releases custody back to the seller and records it
func (s *AuctionService) returnAssetToSeller(ctx context.Context, txRepo *repository.Repository, auction *models.Auction) error {
	releaseTx, err := s.custody.ReleaseFromEscrow(ctx, auction.SellerWallet, auction.AssetID)
	if err != nil {
		return fmt.Errorf("failed to return asset to seller: %w", err)
	}
	auction.ReleaseTxHash = &releaseTx
	if err := txRepo.UpdateAuction(ctx, auction); err != nil {
		return fmt.Errorf("failed to record asset release: %w", err)
	}
	return s.recordAccounting(ctx, txRepo, auction, models.SettlementTxTypeAssetTransfer, auction.SellerWallet, 0, &releaseTx)
}

// recordAccounting appends one audit row tied to the auction
func (s *AuctionService) recordAccounting(
	ctx context.Context,
	txRepo *repository.Repository,
	auction *models.Auction,
	txType models.SettlementTxType,
	wallet string,
	amount int64,
	txHash *string,
) error {
	auctionID := auction.ID
	row := &models.SettlementTransaction{
		ID:        uuid.New(),
		AuctionID: &auctionID,
		TxType:    txType,
		Wallet:    wallet,
		Amount:    amount,
		Rail:      auction.Rail,
		TxHash:    txHash,
		Status:    models.SettlementTxStatusConfirmed,
		CreatedAt: time.Now(),
	}
	if err := txRepo.CreateSettlementTransaction(ctx, row); err != nil {
		return fmt.Errorf("failed to record accounting entry: %w", err)
	}
	return nil
}

// resolveRoyalty pins the royalty terms and creator identity for a new
// sale. An explicit royalty must sit inside the configured bounds; with
// none given the advisory on-chain policy is consulted, and any failure
// falls back to the platform floor with the seller as creator.
func (s *AuctionService) resolveRoyalty(ctx context.Context, seller, assetID string, requested int64) (int64, string, error) {
	if requested != 0 {
		if requested < s.cfg.RoyaltyFloorBps || requested > s.cfg.RoyaltyCapBps {
			return 0, "", ErrRoyaltyOutOfBounds
		}
		creator := s.advisoryCreator(ctx, assetID, seller)
		return requested, creator, nil
	}

	supported, err := s.royalty.SupportsRoyaltyQuery(ctx, assetID)
	if err != nil || !supported {
		if err != nil {
			log.Printf("[Auction] Royalty query failed for %s, using floor: %v", assetID, err)
		}
		return s.cfg.RoyaltyFloorBps, seller, nil
	}

	// Query with the basis-point denominator as the sale amount so the
	// returned cut is directly the royalty in basis points.
	recipient, bps, err := s.royalty.RoyaltyInfo(ctx, assetID, BasisPoints)
	if err != nil {
		log.Printf("[Auction] Royalty info failed for %s, using floor: %v", assetID, err)
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

// advisoryCreator resolves the creator for a seller-specified royalty,
// falling back to the seller
func (s *AuctionService) advisoryCreator(ctx context.Context, assetID, seller string) string {
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

// GetAuction retrieves one auction
func (s *AuctionService) GetAuction(ctx context.Context, auctionID uint) (*models.Auction, error) {
	return s.repo.GetAuctionByID(ctx, auctionID)
}

// ListAuctions retrieves auctions matching the filter
func (s *AuctionService) ListAuctions(ctx context.Context, filter repository.AuctionFilter, limit, offset int) ([]*models.Auction, error) {
	return s.repo.ListAuctions(ctx, filter, limit, offset)
}

// GetBidHistory retrieves the append-only bid history for an auction
func (s *AuctionService) GetBidHistory(ctx context.Context, auctionID uint) ([]*models.Bid, error) {
	return s.repo.GetBidsByAuction(ctx, auctionID)
}

// GetExpiredUnsettled lists auctions the sweeper should settle
func (s *AuctionService) GetExpiredUnsettled(ctx context.Context, limit int) ([]*models.Auction, error) {
	return s.repo.GetExpiredUnsettledAuctions(ctx, time.Now(), limit)
}
