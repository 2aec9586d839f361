package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"

	"github.com/google/uuid"
)

// SettlementService distributes sale proceeds between platform, creator
// and seller and moves the asset to the buyer. It is shared by the
// auction and listing paths; both invoke Distribute inside an already
// open database transaction whose state flips (is_settled, is_active)
// have been applied first, so an adapter failure rolls everything back.
type SettlementService struct {
	custody  AssetCustody
	rails    map[models.CurrencyRail]PaymentRail
	defaults models.PlatformConfig
}

func NewSettlementService(
	custody AssetCustody,
	rails map[models.CurrencyRail]PaymentRail,
	defaults models.PlatformConfig,
) *SettlementService {
	return &SettlementService{
		custody:  custody,
		rails:    rails,
		defaults: defaults,
	}
}

// Sale describes one terminating auction or listing purchase
type Sale struct {
	AuctionID  *uint
	ListingID  *uint
	Collection string
	AssetID    string
	Seller     string
	Buyer      string
	Amount     int64
	RoyaltyBps int64 // snapshot taken at creation, never recomputed
	Rail       models.CurrencyRail
}

// Distribute runs the ordered atomic distribution for one sale:
// platform fee, then royalty, then seller remainder, each as a discrete
// transfer with zero-value transfers skipped, then asset custody to the
// buyer. Any transfer failure aborts the whole settlement.
func (s *SettlementService) Distribute(ctx context.Context, repo *repository.Repository, sale Sale) error {
	rail, ok := s.rails[sale.Rail]
	if !ok {
		return ErrUnknownRail
	}

	cfg, err := repo.GetPlatformConfig(ctx, s.defaults)
	if err != nil {
		return fmt.Errorf("failed to load platform config: %w", err)
	}

	platformOriginated, err := repo.IsPlatformOriginated(ctx, sale.Collection)
	if err != nil {
		return fmt.Errorf("failed to resolve fee tier: %w", err)
	}
	feeBps := cfg.StandardFeeBps
	if platformOriginated {
		feeBps = cfg.PlatformFeeBps
	}

	creator, err := repo.GetAssetCreator(ctx, sale.Collection, sale.AssetID)
	if err != nil {
		return fmt.Errorf("failed to resolve creator: %w", err)
	}

	breakdown := CalculateFees(sale.Amount, feeBps, sale.RoyaltyBps, creator != "" && creator != sale.Seller)

	// Platform fee
	if breakdown.PlatformFee > 0 {
		txHash, err := rail.Payout(ctx, cfg.FeeRecipient, breakdown.PlatformFee)
		if err != nil {
			return fmt.Errorf("platform fee transfer failed: %w", err)
		}
		if err := s.record(ctx, repo, sale, models.SettlementTxTypeFee, cfg.FeeRecipient, breakdown.PlatformFee, &txHash); err != nil {
			return err
		}
	}

	// Creator royalty
	if breakdown.Royalty > 0 {
		txHash, err := rail.Payout(ctx, creator, breakdown.Royalty)
		if err != nil {
			return fmt.Errorf("royalty transfer failed: %w", err)
		}
		if err := s.record(ctx, repo, sale, models.SettlementTxTypeRoyalty, creator, breakdown.Royalty, &txHash); err != nil {
			return err
		}
		log.Printf("[Settlement] Royalty of %d paid to creator %s", breakdown.Royalty, creator)
	}

	// Seller remainder
	if breakdown.SellerAmount > 0 {
		txHash, err := rail.Payout(ctx, sale.Seller, breakdown.SellerAmount)
		if err != nil {
			return fmt.Errorf("seller payout failed: %w", err)
		}
		if err := s.record(ctx, repo, sale, models.SettlementTxTypePayout, sale.Seller, breakdown.SellerAmount, &txHash); err != nil {
			return err
		}
	}

	// Asset custody to the buyer
	releaseTx, err := s.custody.ReleaseFromEscrow(ctx, sale.Buyer, sale.AssetID)
	if err != nil {
		return fmt.Errorf("asset release failed: %w", err)
	}
	if err := s.record(ctx, repo, sale, models.SettlementTxTypeAssetTransfer, sale.Buyer, 0, &releaseTx); err != nil {
		return err
	}

	log.Printf("[Settlement] Sale of %s/%s settled: amount=%d fee=%d royalty=%d seller=%d",
		sale.Collection, sale.AssetID, sale.Amount,
		breakdown.PlatformFee, breakdown.Royalty, breakdown.SellerAmount)

	return nil
}

// record appends one settlement audit row
func (s *SettlementService) record(
	ctx context.Context,
	repo *repository.Repository,
	sale Sale,
	txType models.SettlementTxType,
	wallet string,
	amount int64,
	txHash *string,
) error {
	row := &models.SettlementTransaction{
		ID:        uuid.New(),
		AuctionID: sale.AuctionID,
		ListingID: sale.ListingID,
		TxType:    txType,
		Wallet:    wallet,
		Amount:    amount,
		Rail:      sale.Rail,
		TxHash:    txHash,
		Status:    models.SettlementTxStatusConfirmed,
		CreatedAt: time.Now(),
	}
	if err := repo.CreateSettlementTransaction(ctx, row); err != nil {
		return fmt.Errorf("failed to record settlement transaction: %w", err)
	}
	return nil
}
