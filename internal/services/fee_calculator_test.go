package services

import (
	"testing"
)

func TestCalculateFees(t *testing.T) {
	// 2% fee, 5% royalty on a 1 SOL sale
	b := CalculateFees(1_000_000_000, 200, 500, true)

	if b.PlatformFee != 20_000_000 {
		t.Errorf("expected platform fee 20000000, got %d", b.PlatformFee)
	}
	if b.Royalty != 50_000_000 {
		t.Errorf("expected royalty 50000000, got %d", b.Royalty)
	}
	if b.SellerAmount != 930_000_000 {
		t.Errorf("expected seller amount 930000000, got %d", b.SellerAmount)
	}
	if b.PlatformFee+b.Royalty+b.SellerAmount != 1_000_000_000 {
		t.Errorf("split does not sum to sale amount")
	}
}

func TestCalculateFeesNoDistinctCreator(t *testing.T) {
	// Royalty is skipped when the seller is the creator
	b := CalculateFees(1_000_000, 200, 500, false)

	if b.Royalty != 0 {
		t.Errorf("expected zero royalty, got %d", b.Royalty)
	}
	if b.SellerAmount != 980_000 {
		t.Errorf("expected seller amount 980000, got %d", b.SellerAmount)
	}
}

func TestCalculateFeesDustGoesToSeller(t *testing.T) {
	// 333 * 2% = 6.66 truncates to 6, 333 * 5% = 16.65 truncates to 16;
	// the seller absorbs both fractions
	b := CalculateFees(333, 200, 500, true)

	if b.PlatformFee != 6 {
		t.Errorf("expected platform fee 6, got %d", b.PlatformFee)
	}
	if b.Royalty != 16 {
		t.Errorf("expected royalty 16, got %d", b.Royalty)
	}
	if b.SellerAmount != 311 {
		t.Errorf("expected seller amount 311, got %d", b.SellerAmount)
	}
	if b.PlatformFee+b.Royalty+b.SellerAmount != 333 {
		t.Errorf("split does not sum to sale amount")
	}
}

func TestMinNextBid(t *testing.T) {
	// 2.5% of 100 is 2.5, rounded up to 3
	if got := MinNextBid(100); got != 103 {
		t.Errorf("expected min next bid 103, got %d", got)
	}

	// Even increment, no rounding
	if got := MinNextBid(1_000_000); got != 1_025_000 {
		t.Errorf("expected min next bid 1025000, got %d", got)
	}

	// A bid of 1 still has to move by at least 1
	if got := MinNextBid(1); got != 2 {
		t.Errorf("expected min next bid 2, got %d", got)
	}
}
