package blockchain

import (
	"context"
	"fmt"
)

// NativeEscrow is the native-rail (SOL) payment adapter. Deposits arrive
// as transactions the bidder already sent to the escrow wallet; the
// adapter verifies them on-chain. Outbound payouts are escrow-signed
// pushes.
type NativeEscrow struct {
	client *SolanaClient
}

// NewNativeEscrow creates the native-rail adapter
func NewNativeEscrow(client *SolanaClient) *NativeEscrow {
	return &NativeEscrow{client: client}
}

// VerifyDeposit checks that the given signature is a confirmed transfer
// of at least amount lamports from payer to the escrow wallet
func (n *NativeEscrow) VerifyDeposit(ctx context.Context, signature, payer string, amount int64) (bool, error) {
	details, err := n.client.VerifyTransaction(ctx, signature)
	if err != nil {
		return false, fmt.Errorf("failed to verify deposit: %w", err)
	}
	if details == nil || !details.Confirmed {
		return false, nil
	}

	if details.Sender != "" && details.Sender != payer {
		return false, fmt.Errorf("deposit sender %s does not match payer %s", details.Sender, payer)
	}
	if details.Receiver != "" && details.Receiver != n.client.EscrowAddress() {
		return false, fmt.Errorf("deposit receiver %s is not the escrow wallet", details.Receiver)
	}
	if details.Amount > 0 && int64(details.Amount) < amount {
		return false, fmt.Errorf("deposit amount %d is below required %d", details.Amount, amount)
	}

	return true, nil
}

// Transfer pushes lamports from the escrow wallet to a recipient
func (n *NativeEscrow) Transfer(ctx context.Context, to string, amount int64) (string, error) {
	return n.client.TransferSOL(ctx, to, amount)
}

// EscrowBalance returns the escrow wallet's lamport balance
func (n *NativeEscrow) EscrowBalance(ctx context.Context) (int64, error) {
	addr := n.client.EscrowAddress()
	if addr == "" {
		return 0, fmt.Errorf("escrow wallet not configured")
	}
	return n.client.GetLamportBalance(ctx, addr)
}
