package services

import (
	"context"
)

// AssetCustody moves assets in and out of marketplace escrow. A failed
// transfer aborts the enclosing creation or settlement call.
type AssetCustody interface {
	OwnerOf(ctx context.Context, assetID string) (string, error)
	IsApprovedForOperator(ctx context.Context, owner, assetID string) (bool, error)
	TransferToEscrow(ctx context.Context, owner, assetID string) (string, error)
	ReleaseFromEscrow(ctx context.Context, to, assetID string) (string, error)
}

// NativeTransfer is the native-currency escrow counterparty
type NativeTransfer interface {
	VerifyDeposit(ctx context.Context, signature, payer string, amount int64) (bool, error)
	Transfer(ctx context.Context, to string, amount int64) (string, error)
	EscrowBalance(ctx context.Context) (int64, error)
}

// FungibleTransfer is the token-rail escrow counterparty
type FungibleTransfer interface {
	TransferFrom(ctx context.Context, payer string, amount int64) (string, error)
	Transfer(ctx context.Context, to string, amount int64) (string, error)
	EscrowBalance(ctx context.Context) (int64, error)
}

// RoyaltyPolicy answers advisory royalty queries per asset. Failures and
// unsupported assets fall back to the platform royalty floor.
type RoyaltyPolicy interface {
	SupportsRoyaltyQuery(ctx context.Context, assetID string) (bool, error)
	RoyaltyInfo(ctx context.Context, assetID string, saleAmount int64) (recipient string, amount int64, err error)
}
