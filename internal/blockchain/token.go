package blockchain

import (
	"context"
	"fmt"
	"log"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// TokenVault is the token-rail (SPL) payment adapter. Inbound movements
// use the payer's prior delegate approval of the escrow wallet; outbound
// movements are escrow-signed transfers. A rejected transfer surfaces as
// an error from the RPC preflight, there is no partial transfer.
type TokenVault struct {
	client   *SolanaClient
	mint     solana.PublicKey
	decimals uint8
}

// NewTokenVault creates the token-rail adapter for one SPL mint
func NewTokenVault(client *SolanaClient, mintAddress string, decimals uint8) (*TokenVault, error) {
	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint address: %w", err)
	}
	return &TokenVault{
		client:   client,
		mint:     mint,
		decimals: decimals,
	}, nil
}

// TransferFrom pulls tokens from the payer's account into escrow using
// the escrow wallet's delegate authority
func (v *TokenVault) TransferFrom(ctx context.Context, payer string, amount int64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("transfer amount must be positive")
	}

	payerKey, err := solana.PublicKeyFromBase58(payer)
	if err != nil {
		return "", fmt.Errorf("invalid payer address: %w", err)
	}

	source, _, err := solana.FindAssociatedTokenAddress(payerKey, v.mint)
	if err != nil {
		return "", fmt.Errorf("failed to derive payer token account: %w", err)
	}

	return v.transfer(ctx, source, v.client.escrowWallet.PublicKey(), amount)
}

// Transfer pushes tokens from escrow to a recipient
func (v *TokenVault) Transfer(ctx context.Context, to string, amount int64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("transfer amount must be positive")
	}

	if v.client.escrowWallet == nil {
		return "", fmt.Errorf("escrow wallet not configured")
	}

	source, _, err := solana.FindAssociatedTokenAddress(v.client.escrowWallet.PublicKey(), v.mint)
	if err != nil {
		return "", fmt.Errorf("failed to derive escrow token account: %w", err)
	}

	destOwner, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	return v.transfer(ctx, source, destOwner, amount)
}

// transfer builds, signs and sends a TransferChecked from source to the
// recipient owner's associated account, with escrow as authority
func (v *TokenVault) transfer(ctx context.Context, source, destOwner solana.PublicKey, amount int64) (string, error) {
	if v.client.escrowWallet == nil {
		return "", fmt.Errorf("escrow wallet not configured")
	}

	destination, _, err := solana.FindAssociatedTokenAddress(destOwner, v.mint)
	if err != nil {
		return "", fmt.Errorf("failed to derive destination token account: %w", err)
	}

	blockhash, err := v.client.GetRecentBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			token.NewTransferCheckedInstruction(
				uint64(amount),
				v.decimals,
				source,
				v.mint,
				destination,
				v.client.escrowWallet.PublicKey(),
				nil,
			).Build(),
		},
		blockhash,
		solana.TransactionPayer(v.client.escrowWallet.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build token transfer: %w", err)
	}

	if err := v.client.signWithEscrow(tx); err != nil {
		return "", err
	}

	sig, err := v.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// EscrowBalance returns the escrow wallet's token balance for the vault mint
func (v *TokenVault) EscrowBalance(ctx context.Context) (int64, error) {
	if v.client.escrowWallet == nil {
		return 0, fmt.Errorf("escrow wallet not configured")
	}
	balance, err := v.tokenBalance(ctx, v.client.escrowWallet.PublicKey())
	if err != nil {
		return 0, err
	}
	return int64(balance), nil
}

// tokenBalance sums the vault-mint token accounts owned by the address
func (v *TokenVault) tokenBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	resp, err := v.client.rpcClient.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{
			Mint: &v.mint,
		},
		&rpc.GetTokenAccountsOpts{
			Encoding: solana.EncodingBase64,
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get token accounts: %w", err)
	}

	var total uint64
	for _, account := range resp.Value {
		var tokenAccount token.Account
		decoder := bin.NewBinDecoder(account.Account.Data.GetBinary())
		if err := tokenAccount.UnmarshalWithDecoder(decoder); err != nil {
			log.Printf("Warning: failed to decode token account data: %v", err)
			continue
		}
		total += tokenAccount.Amount
	}

	return total, nil
}
