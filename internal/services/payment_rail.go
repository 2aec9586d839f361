package services

import (
	"context"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"
)

// PaymentRail abstracts the two currency rails behind one settlement
// surface. The refund asymmetry is deliberate: native refunds go through
// the pull-payment ledger so a hostile recipient cannot block settlement
// of an unrelated auction, token refunds are pushed immediately because
// a conforming token transfer cannot be rejected the same way.
type PaymentRail interface {
	Rail() models.CurrencyRail

	// CollectDeposit brings the bidder's funds under escrow before the
	// bid is accepted.
	CollectDeposit(ctx context.Context, repo *repository.Repository, payer string, amount int64, depositTx string) (txHash *string, err error)

	// RefundOutbid returns a displaced bidder's escrowed amount.
	RefundOutbid(ctx context.Context, repo *repository.Repository, bidder string, amount int64) (txHash *string, err error)

	// Payout pushes settlement proceeds to a fixed recipient. A failure
	// aborts the enclosing settlement.
	Payout(ctx context.Context, to string, amount int64) (string, error)

	// EscrowBalance reports the rail's total escrow-held balance.
	EscrowBalance(ctx context.Context) (int64, error)
}

// NativeRail escrows the native currency. Deposits are verified transfer
// transactions the bidder already sent; refunds credit the pending
// withdrawal ledger.
type NativeRail struct {
	native NativeTransfer
}

func NewNativeRail(native NativeTransfer) *NativeRail {
	return &NativeRail{native: native}
}

func (r *NativeRail) Rail() models.CurrencyRail {
	return models.RailNative
}

func (r *NativeRail) CollectDeposit(ctx context.Context, repo *repository.Repository, payer string, amount int64, depositTx string) (*string, error) {
	if depositTx == "" {
		return nil, ErrMissingDeposit
	}
	// One on-chain deposit backs exactly one accepted bid.
	seen, err := repo.DepositTxSeen(ctx, depositTx)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, ErrDepositReused
	}
	ok, err := r.native.VerifyDeposit(ctx, depositTx, payer, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientPayment
	}
	return &depositTx, nil
}

func (r *NativeRail) RefundOutbid(ctx context.Context, repo *repository.Repository, bidder string, amount int64) (*string, error) {
	if err := repo.CreditPendingWithdrawal(ctx, bidder, amount); err != nil {
		return nil, err
	}
	// Pull pattern: no transfer happens until the bidder withdraws.
	return nil, nil
}

func (r *NativeRail) Payout(ctx context.Context, to string, amount int64) (string, error) {
	return r.native.Transfer(ctx, to, amount)
}

func (r *NativeRail) EscrowBalance(ctx context.Context) (int64, error) {
	return r.native.EscrowBalance(ctx)
}

// TokenRail escrows a fungible token. Every movement is an explicit
// transfer call; refunds are pushed immediately.
type TokenRail struct {
	vault FungibleTransfer
}

func NewTokenRail(vault FungibleTransfer) *TokenRail {
	return &TokenRail{vault: vault}
}

func (r *TokenRail) Rail() models.CurrencyRail {
	return models.RailToken
}

func (r *TokenRail) CollectDeposit(ctx context.Context, repo *repository.Repository, payer string, amount int64, depositTx string) (*string, error) {
	txHash, err := r.vault.TransferFrom(ctx, payer, amount)
	if err != nil {
		return nil, err
	}
	return &txHash, nil
}

func (r *TokenRail) RefundOutbid(ctx context.Context, repo *repository.Repository, bidder string, amount int64) (*string, error) {
	txHash, err := r.vault.Transfer(ctx, bidder, amount)
	if err != nil {
		return nil, err
	}
	return &txHash, nil
}

func (r *TokenRail) Payout(ctx context.Context, to string, amount int64) (string, error) {
	return r.vault.Transfer(ctx, to, amount)
}

func (r *TokenRail) EscrowBalance(ctx context.Context) (int64, error) {
	return r.vault.EscrowBalance(ctx)
}
