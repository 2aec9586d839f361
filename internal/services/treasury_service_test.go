package services

import (
	"context"
	"errors"
	"testing"

	"nft-marketplace/internal/models"
)

func TestWithdrawDrainsLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.repo.CreditPendingWithdrawal(ctx, "bidder-1", 500_000); err != nil {
		t.Fatalf("CreditPendingWithdrawal failed: %v", err)
	}
	if err := env.repo.CreditPendingWithdrawal(ctx, "bidder-1", 250_000); err != nil {
		t.Fatalf("CreditPendingWithdrawal failed: %v", err)
	}

	amount, err := env.treasury.Withdraw(ctx, "bidder-1")
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if amount != 750_000 {
		t.Errorf("expected withdrawal of 750000, got %d", amount)
	}
	if env.native.transfers["bidder-1"] != 750_000 {
		t.Errorf("expected push of 750000, got %d", env.native.transfers["bidder-1"])
	}

	// The ledger is empty now
	_, err = env.treasury.Withdraw(ctx, "bidder-1")
	if !errors.Is(err, ErrNothingWithdrawable) {
		t.Errorf("expected ErrNothingWithdrawable, got %v", err)
	}

	pending, err := env.treasury.PendingWithdrawal(ctx, "bidder-1")
	if err != nil {
		t.Fatalf("PendingWithdrawal failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("expected empty ledger, got %d", pending)
	}
}

func TestWithdrawUnknownWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.treasury.Withdraw(ctx, "nobody")
	if !errors.Is(err, ErrNothingWithdrawable) {
		t.Errorf("expected ErrNothingWithdrawable, got %v", err)
	}
}

func TestEmergencyWithdrawBoundedByLockedFunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	operator := env.createOperator(t, "operator")
	user := env.createUser(t, "not-operator")

	// An active auction holds 600000 in escrow, the ledger owes 100000
	seller := env.createUser(t, "seller")
	bidder := env.createUser(t, "bidder-1")
	auction, err := env.auctions.CreateAuction(ctx, seller, &models.CreateAuctionRequest{
		Collection: "col", AssetID: "nft-1", ReservePrice: 600_000, DurationSeconds: 7200,
	})
	if err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}
	if _, err := env.auctions.PlaceBid(ctx, bidder, auction.ID, &models.PlaceBidRequest{
		Amount: 600_000, Rail: models.RailNative, DepositTx: "sig-1",
	}); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	if err := env.repo.CreditPendingWithdrawal(ctx, "bidder-2", 100_000); err != nil {
		t.Fatalf("CreditPendingWithdrawal failed: %v", err)
	}

	env.native.balance = 1_000_000

	_, err = env.treasury.EmergencyWithdraw(ctx, user, models.RailNative, "ops-wallet", 100_000)
	if !errors.Is(err, ErrNotOperator) {
		t.Errorf("expected ErrNotOperator, got %v", err)
	}

	// 1000000 balance - 600000 locked - 100000 owed = 300000 available
	_, err = env.treasury.EmergencyWithdraw(ctx, operator, models.RailNative, "ops-wallet", 400_000)
	if !errors.Is(err, ErrExceedsUnlocked) {
		t.Errorf("expected ErrExceedsUnlocked, got %v", err)
	}

	txHash, err := env.treasury.EmergencyWithdraw(ctx, operator, models.RailNative, "ops-wallet", 300_000)
	if err != nil {
		t.Fatalf("EmergencyWithdraw failed: %v", err)
	}
	if txHash == "" {
		t.Errorf("expected transaction hash")
	}
	if env.native.transfers["ops-wallet"] != 300_000 {
		t.Errorf("expected transfer of 300000, got %d", env.native.transfers["ops-wallet"])
	}
}

func TestLockedFundsPerRail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.createUser(t, "seller")
	nativeBidder := env.createUser(t, "bidder-1")
	tokenBidder := env.createUser(t, "bidder-2")

	a1, err := env.auctions.CreateAuction(ctx, seller, &models.CreateAuctionRequest{
		Collection: "col", AssetID: "nft-1", ReservePrice: 500_000, DurationSeconds: 7200,
	})
	if err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}
	a2, err := env.auctions.CreateAuction(ctx, seller, &models.CreateAuctionRequest{
		Collection: "col", AssetID: "nft-2", ReservePrice: 300_000, DurationSeconds: 7200,
		Rail: models.RailToken,
	})
	if err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}

	if _, err := env.auctions.PlaceBid(ctx, nativeBidder, a1.ID, &models.PlaceBidRequest{
		Amount: 500_000, Rail: models.RailNative, DepositTx: "sig-1",
	}); err != nil {
		t.Fatalf("native bid failed: %v", err)
	}
	if _, err := env.auctions.PlaceBid(ctx, tokenBidder, a2.ID, &models.PlaceBidRequest{
		Amount: 300_000, Rail: models.RailToken,
	}); err != nil {
		t.Fatalf("token bid failed: %v", err)
	}

	native, err := env.treasury.LockedNative(ctx)
	if err != nil {
		t.Fatalf("LockedNative failed: %v", err)
	}
	if native != 500_000 {
		t.Errorf("expected 500000 locked on native rail, got %d", native)
	}

	token, err := env.treasury.LockedToken(ctx)
	if err != nil {
		t.Fatalf("LockedToken failed: %v", err)
	}
	if token != 300_000 {
		t.Errorf("expected 300000 locked on token rail, got %d", token)
	}
}
