package services

// BasisPoints is the denominator of all fee and royalty percentages.
const BasisPoints = 10_000

// MinIncrementBps is the minimum outbid increment, 2.5% of the current
// high bid.
const MinIncrementBps = 250

// FeeBreakdown is the atomic three-way split of one sale amount.
// PlatformFee + Royalty + SellerAmount always equals the sale amount:
// both percentage cuts truncate, so integer dust lands with the seller.
type FeeBreakdown struct {
	PlatformFee  int64
	Royalty      int64
	SellerAmount int64
}

// CalculateFees splits saleAmount between platform, creator and seller.
// Royalty applies only when a creator distinct from the seller exists.
func CalculateFees(saleAmount, feeBps, royaltyBps int64, hasDistinctCreator bool) FeeBreakdown {
	platformFee := saleAmount * feeBps / BasisPoints

	var royalty int64
	if hasDistinctCreator {
		royalty = saleAmount * royaltyBps / BasisPoints
	}

	return FeeBreakdown{
		PlatformFee:  platformFee,
		Royalty:      royalty,
		SellerAmount: saleAmount - platformFee - royalty,
	}
}

// MinNextBid returns the smallest acceptable bid over the current high
// bid: current + ceil(current * 2.5%).
func MinNextBid(currentHighBid int64) int64 {
	increment := (currentHighBid*MinIncrementBps + BasisPoints - 1) / BasisPoints
	return currentHighBid + increment
}
