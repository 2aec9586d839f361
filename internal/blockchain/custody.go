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

// NFTCustody moves assets (NFT mints, token supply of 1) in and out of
// escrow custody. Inbound custody uses the seller's prior delegate
// approval of the escrow wallet, outbound release is escrow-signed. Any
// rejected transfer surfaces as an error and aborts the caller's
// operation.
type NFTCustody struct {
	client *SolanaClient
}

// NewNFTCustody creates the custody adapter
func NewNFTCustody(client *SolanaClient) *NFTCustody {
	return &NFTCustody{client: client}
}

// OwnerOf returns the wallet currently holding the asset
func (c *NFTCustody) OwnerOf(ctx context.Context, assetMint string) (string, error) {
	account, err := c.holderAccount(ctx, assetMint)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fmt.Errorf("asset %s has no holder", assetMint)
	}
	return account.Owner.String(), nil
}

// IsApprovedForOperator reports whether the escrow wallet is the
// delegate on the holder's token account for the asset
func (c *NFTCustody) IsApprovedForOperator(ctx context.Context, owner, assetMint string) (bool, error) {
	account, err := c.holderAccount(ctx, assetMint)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	if account.Owner.String() != owner {
		return false, nil
	}
	if account.Delegate == nil {
		return false, nil
	}
	return account.Delegate.String() == c.client.EscrowAddress(), nil
}

// TransferToEscrow pulls the asset from its owner into escrow custody
// using delegate authority
func (c *NFTCustody) TransferToEscrow(ctx context.Context, owner, assetMint string) (string, error) {
	if c.client.escrowWallet == nil {
		return "", fmt.Errorf("escrow wallet not configured")
	}

	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return "", fmt.Errorf("invalid owner address: %w", err)
	}

	return c.moveAsset(ctx, assetMint, ownerKey, c.client.escrowWallet.PublicKey())
}

// ReleaseFromEscrow pushes the asset from escrow custody to a recipient
func (c *NFTCustody) ReleaseFromEscrow(ctx context.Context, to, assetMint string) (string, error) {
	if c.client.escrowWallet == nil {
		return "", fmt.Errorf("escrow wallet not configured")
	}

	recipient, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	return c.moveAsset(ctx, assetMint, c.client.escrowWallet.PublicKey(), recipient)
}

// moveAsset transfers the single token of an NFT mint between associated
// accounts, signed by the escrow wallet (as delegate or as holder)
func (c *NFTCustody) moveAsset(ctx context.Context, assetMint string, from, to solana.PublicKey) (string, error) {
	mint, err := solana.PublicKeyFromBase58(assetMint)
	if err != nil {
		return "", fmt.Errorf("invalid asset mint: %w", err)
	}

	source, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil {
		return "", fmt.Errorf("failed to derive source token account: %w", err)
	}
	destination, _, err := solana.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return "", fmt.Errorf("failed to derive destination token account: %w", err)
	}

	blockhash, err := c.client.GetRecentBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			token.NewTransferCheckedInstruction(
				1, // NFTs carry a supply of exactly one
				0,
				source,
				mint,
				destination,
				c.client.escrowWallet.PublicKey(),
				nil,
			).Build(),
		},
		blockhash,
		solana.TransactionPayer(c.client.escrowWallet.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build custody transfer: %w", err)
	}

	if err := c.client.signWithEscrow(tx); err != nil {
		return "", err
	}

	sig, err := c.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// holderAccount finds the token account currently holding the asset
func (c *NFTCustody) holderAccount(ctx context.Context, assetMint string) (*token.Account, error) {
	mint, err := solana.PublicKeyFromBase58(assetMint)
	if err != nil {
		return nil, fmt.Errorf("invalid asset mint: %w", err)
	}

	resp, err := c.client.rpcClient.GetTokenLargestAccounts(ctx, mint, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get token accounts for mint: %w", err)
	}
	if len(resp.Value) == 0 {
		return nil, nil
	}

	// The holding account is the one with balance 1; largest-first order
	// puts it at index 0.
	holder := resp.Value[0].Address

	info, err := c.client.rpcClient.GetAccountInfo(ctx, holder)
	if err != nil {
		return nil, fmt.Errorf("failed to get holder account: %w", err)
	}

	var account token.Account
	decoder := bin.NewBinDecoder(info.Value.Data.GetBinary())
	if err := account.UnmarshalWithDecoder(decoder); err != nil {
		log.Printf("Warning: failed to decode token account data: %v", err)
		return nil, fmt.Errorf("failed to decode holder account: %w", err)
	}

	return &account, nil
}
