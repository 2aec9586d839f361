package services

import (
	"context"
	"errors"
	"testing"

	"nft-marketplace/internal/models"
)

func TestListingBuyIsOneShot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	buyer := env.createUser(t, "buyer")
	late := env.createUser(t, "late-buyer")

	listing, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}
	if env.custody.owners["nft-1"] != "escrow" {
		t.Errorf("expected asset in escrow, owner is %s", env.custody.owners["nft-1"])
	}

	bought, err := env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailNative, DepositTx: "sig-1",
	})
	if err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	if bought.IsActive {
		t.Errorf("expected listing deactivated after purchase")
	}
	if env.custody.owners["nft-1"] != "buyer" {
		t.Errorf("expected asset with buyer, owner is %s", env.custody.owners["nft-1"])
	}

	// 2% fee, no distinct creator, remainder to the seller
	if env.native.transfers["fee-wallet"] != 20_000 {
		t.Errorf("expected platform fee 20000, got %d", env.native.transfers["fee-wallet"])
	}
	if env.native.transfers["seller"] != 980_000 {
		t.Errorf("expected seller payout 980000, got %d", env.native.transfers["seller"])
	}

	// The second buyer is rejected on the frozen listing
	_, err = env.listings.Buy(ctx, late, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailNative, DepositTx: "sig-2",
	})
	if !errors.Is(err, ErrListingNotActive) {
		t.Errorf("expected ErrListingNotActive, got %v", err)
	}
}

func TestListingBuyValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	buyer := env.createUser(t, "buyer")

	listing, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	_, err = env.listings.Buy(ctx, seller, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailNative, DepositTx: "sig-1",
	})
	if !errors.Is(err, ErrSellerCannotBuy) {
		t.Errorf("expected ErrSellerCannotBuy, got %v", err)
	}

	_, err = env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailToken,
	})
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}

	_, err = env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 999_999, Rail: models.RailNative, DepositTx: "sig-1",
	})
	if !errors.Is(err, ErrInsufficientPayment) {
		t.Errorf("expected ErrInsufficientPayment, got %v", err)
	}
}

func TestListingEditWhileActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	buyer := env.createUser(t, "buyer")
	stranger := env.createUser(t, "stranger")

	listing, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	_, err = env.listings.Edit(ctx, stranger, listing.ID, 2_000_000)
	if !errors.Is(err, ErrNotSeller) {
		t.Errorf("expected ErrNotSeller, got %v", err)
	}

	edited, err := env.listings.Edit(ctx, seller, listing.ID, 2_000_000)
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.Price != 2_000_000 {
		t.Errorf("expected price 2000000, got %d", edited.Price)
	}

	// The buyer pays the edited price
	if _, err := env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 2_000_000, Rail: models.RailNative, DepositTx: "sig-1",
	}); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	// Frozen after purchase
	_, err = env.listings.Edit(ctx, seller, listing.ID, 3_000_000)
	if !errors.Is(err, ErrListingNotActive) {
		t.Errorf("expected ErrListingNotActive, got %v", err)
	}
}

func TestListingCancelReturnsAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	buyer := env.createUser(t, "buyer")

	listing, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	cancelled, err := env.listings.Cancel(ctx, seller, listing.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.IsActive {
		t.Errorf("expected listing deactivated")
	}
	if env.custody.owners["nft-1"] != "seller" {
		t.Errorf("expected asset back with seller, owner is %s", env.custody.owners["nft-1"])
	}

	_, err = env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailNative, DepositTx: "sig-1",
	})
	if !errors.Is(err, ErrListingNotActive) {
		t.Errorf("expected ErrListingNotActive, got %v", err)
	}
}

func TestListingRoyaltyDistribution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	buyer := env.createUser(t, "buyer")

	env.royalty.supported = true
	env.royalty.recipient = "creator-wallet"
	env.royalty.bps = 500

	listing, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	if _, err := env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailNative, DepositTx: "sig-1",
	}); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	if env.native.transfers["creator-wallet"] != 50_000 {
		t.Errorf("expected royalty 50000, got %d", env.native.transfers["creator-wallet"])
	}
	if env.native.transfers["seller"] != 930_000 {
		t.Errorf("expected seller payout 930000, got %d", env.native.transfers["seller"])
	}
}

func TestListingPlatformFeeTier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	buyer := env.createUser(t, "buyer")
	operator := env.createOperator(t, "operator")

	// Flag the collection as platform-originated: 5% fee instead of 2%
	if err := env.admin.SetCollectionFeeTier(ctx, operator, "launchpad-col", true); err != nil {
		t.Fatalf("SetCollectionFeeTier failed: %v", err)
	}

	listing, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "launchpad-col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	if _, err := env.listings.Buy(ctx, buyer, listing.ID, &models.BuyListingRequest{
		Amount: 1_000_000, Rail: models.RailNative, DepositTx: "sig-1",
	}); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	if env.native.transfers["fee-wallet"] != 50_000 {
		t.Errorf("expected platform-tier fee 50000, got %d", env.native.transfers["fee-wallet"])
	}
	if env.native.transfers["seller"] != 950_000 {
		t.Errorf("expected seller payout 950000, got %d", env.native.transfers["seller"])
	}
}

func TestAssetExclusiveAcrossSaleTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")

	if _, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	}); err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	// A listed asset cannot also be auctioned
	_, err := env.auctions.CreateAuction(ctx, seller, &models.CreateAuctionRequest{
		Collection: "col", AssetID: "nft-1", ReservePrice: 1_000_000, DurationSeconds: 7200,
	})
	if !errors.Is(err, ErrAssetAlreadyListed) {
		t.Errorf("expected ErrAssetAlreadyListed for auction on listed asset, got %v", err)
	}

	// And an auctioned asset cannot also be listed
	if _, err := env.auctions.CreateAuction(ctx, seller, &models.CreateAuctionRequest{
		Collection: "col", AssetID: "nft-2", ReservePrice: 1_000_000, DurationSeconds: 7200,
	}); err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}
	_, err = env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-2", Price: 1_000_000,
	})
	if !errors.Is(err, ErrAssetAlreadyListed) {
		t.Errorf("expected ErrAssetAlreadyListed for listing on auctioned asset, got %v", err)
	}
}

func TestAbortedListingCreationReleasesAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")

	// Force the insert step inside the creation transaction to fail
	env.db.Exec("DROP TABLE asset_creators")

	_, err := env.listings.CreateListing(ctx, seller, &models.CreateListingRequest{
		Collection: "col", AssetID: "nft-1", Price: 1_000_000,
	})
	if err == nil {
		t.Fatalf("expected CreateListing to fail")
	}

	if env.custody.owners["nft-1"] != "seller" {
		t.Errorf("expected asset back with seller, owner is %s", env.custody.owners["nft-1"])
	}
	var count int64
	env.db.Model(&models.FixedPriceListing{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no listing rows, got %d", count)
	}
}
