package blockchain

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const basisPointsDenominator = 10_000

// RoyaltyOracle answers royalty queries from on-chain token metadata.
// It is advisory: callers fall back to the platform royalty floor when a
// query fails or the asset carries no metadata.
type RoyaltyOracle struct {
	client *SolanaClient
}

// NewRoyaltyOracle creates the royalty query adapter
func NewRoyaltyOracle(client *SolanaClient) *RoyaltyOracle {
	return &RoyaltyOracle{client: client}
}

// metadataAccount is the prefix of the Metaplex token metadata layout we
// care about; fields beyond the first creator list are not read.
type metadataAccount struct {
	Key                  uint8
	UpdateAuthority      solana.PublicKey
	Mint                 solana.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []metadataCreator
}

type metadataCreator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// SupportsRoyaltyQuery reports whether the asset has a readable metadata
// account
func (o *RoyaltyOracle) SupportsRoyaltyQuery(ctx context.Context, assetMint string) (bool, error) {
	meta, err := o.fetchMetadata(ctx, assetMint)
	if err != nil {
		return false, err
	}
	return meta != nil, nil
}

// RoyaltyInfo returns the royalty recipient and amount for a sale of the
// asset at saleAmount, per its metadata terms
func (o *RoyaltyOracle) RoyaltyInfo(ctx context.Context, assetMint string, saleAmount int64) (string, int64, error) {
	meta, err := o.fetchMetadata(ctx, assetMint)
	if err != nil {
		return "", 0, err
	}
	if meta == nil {
		return "", 0, fmt.Errorf("asset %s has no metadata account", assetMint)
	}

	recipient := ""
	for _, creator := range meta.Creators {
		if creator.Verified {
			recipient = creator.Address.String()
			break
		}
	}
	if recipient == "" && len(meta.Creators) > 0 {
		recipient = meta.Creators[0].Address.String()
	}
	if recipient == "" {
		return "", 0, fmt.Errorf("asset %s declares no creators", assetMint)
	}

	amount := saleAmount * int64(meta.SellerFeeBasisPoints) / basisPointsDenominator
	return recipient, amount, nil
}

// fetchMetadata reads and decodes the metadata PDA for a mint. A missing
// account returns (nil, nil).
func (o *RoyaltyOracle) fetchMetadata(ctx context.Context, assetMint string) (*metadataAccount, error) {
	mint, err := solana.PublicKeyFromBase58(assetMint)
	if err != nil {
		return nil, fmt.Errorf("invalid asset mint: %w", err)
	}

	pda, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			solana.TokenMetadataProgramID.Bytes(),
			mint.Bytes(),
		},
		solana.TokenMetadataProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata address: %w", err)
	}

	info, err := o.client.rpcClient.GetAccountInfo(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata account: %w", err)
	}
	if info == nil || info.Value == nil {
		return nil, nil
	}

	meta, err := decodeMetadata(info.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return meta, nil
}

// decodeMetadata parses the borsh-encoded metadata prefix
func decodeMetadata(data []byte) (*metadataAccount, error) {
	dec := bin.NewBorshDecoder(data)

	var meta metadataAccount
	var err error

	if meta.Key, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	if err = readPublicKey(dec, &meta.UpdateAuthority); err != nil {
		return nil, err
	}
	if err = readPublicKey(dec, &meta.Mint); err != nil {
		return nil, err
	}
	if meta.Name, err = dec.ReadRustString(); err != nil {
		return nil, err
	}
	if meta.Symbol, err = dec.ReadRustString(); err != nil {
		return nil, err
	}
	if meta.URI, err = dec.ReadRustString(); err != nil {
		return nil, err
	}
	if meta.SellerFeeBasisPoints, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}

	hasCreators, err := dec.ReadBool()
	if err != nil {
		return nil, err
	}
	if hasCreators {
		count, err := dec.ReadUint32(bin.LE)
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			var creator metadataCreator
			if err = readPublicKey(dec, &creator.Address); err != nil {
				return nil, err
			}
			if creator.Verified, err = dec.ReadBool(); err != nil {
				return nil, err
			}
			if creator.Share, err = dec.ReadUint8(); err != nil {
				return nil, err
			}
			meta.Creators = append(meta.Creators, creator)
		}
	}

	return &meta, nil
}

func readPublicKey(dec *bin.Decoder, out *solana.PublicKey) error {
	raw, err := dec.ReadNBytes(32)
	if err != nil {
		return err
	}
	copy(out[:], raw)
	return nil
}
