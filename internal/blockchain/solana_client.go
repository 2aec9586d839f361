package blockchain

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

const lamportsPerSOL = 1_000_000_000

// SolanaClient handles Solana blockchain interactions on behalf of the
// marketplace escrow wallet
type SolanaClient struct {
	rpcClient    *rpc.Client
	network      string
	escrowWallet *solana.Wallet
	httpClient   *http.Client
}

// NewSolanaClient creates a new Solana client
func NewSolanaClient(network, privateKey string) *SolanaClient {
	var rpcURL string
	switch network {
	case "mainnet-beta":
		rpcURL = "https://api.mainnet-beta.solana.com"
	case "devnet":
		rpcURL = "https://api.devnet.solana.com"
	case "testnet":
		rpcURL = "https://api.testnet.solana.com"
	default:
		rpcURL = "https://api.devnet.solana.com"
	}

	client := &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		network:   network,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	// Initialize escrow wallet if private key is provided
	if privateKey != "" {
		wallet, err := solana.WalletFromPrivateKeyBase58(privateKey)
		if err != nil {
			log.Printf("Warning: Failed to load escrow wallet: %v", err)
		} else {
			client.escrowWallet = wallet
			log.Printf("Escrow wallet loaded: %s", wallet.PublicKey())
		}
	}

	return client
}

// EscrowAddress returns the escrow wallet public key
func (s *SolanaClient) EscrowAddress() string {
	if s.escrowWallet == nil {
		return ""
	}
	return s.escrowWallet.PublicKey().String()
}

// ValidateWalletAddress validates a Solana wallet address format
func (s *SolanaClient) ValidateWalletAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

// GetLamportBalance gets the lamport balance for a wallet
func (s *SolanaClient) GetLamportBalance(ctx context.Context, walletAddress string) (int64, error) {
	pubKey, err := solana.PublicKeyFromBase58(walletAddress)
	if err != nil {
		return 0, err
	}

	balance, err := s.rpcClient.GetBalance(ctx, pubKey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}

	return int64(balance.Value), nil
}

// GetSOLBalance gets the SOL balance for a wallet
func (s *SolanaClient) GetSOLBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error) {
	lamports, err := s.GetLamportBalance(ctx, walletAddress)
	if err != nil {
		return decimal.Zero, err
	}

	// Convert lamports to SOL
	return decimal.NewFromInt(lamports).Div(decimal.NewFromInt(lamportsPerSOL)), nil
}

// TransferSOL sends lamports from the escrow wallet to a recipient and
// returns the transaction signature
func (s *SolanaClient) TransferSOL(ctx context.Context, to string, lamports int64) (string, error) {
	if s.escrowWallet == nil {
		return "", fmt.Errorf("escrow wallet not configured")
	}
	if lamports <= 0 {
		return "", fmt.Errorf("transfer amount must be positive")
	}

	recipient, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	blockhash, err := s.GetRecentBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(
				uint64(lamports),
				s.escrowWallet.PublicKey(),
				recipient,
			).Build(),
		},
		blockhash,
		solana.TransactionPayer(s.escrowWallet.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build transfer transaction: %w", err)
	}

	if err := s.signWithEscrow(tx); err != nil {
		return "", err
	}

	sig, err := s.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// SendTransaction sends a signed transaction to the network
func (s *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := s.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// GetRecentBlockhash gets the latest blockhash
func (s *SolanaClient) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	resp, err := s.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	return resp.Value.Blockhash, nil
}

// signWithEscrow signs a transaction with the escrow wallet key
func (s *SolanaClient) signWithEscrow(tx *solana.Transaction) error {
	if s.escrowWallet == nil {
		return fmt.Errorf("escrow wallet not configured")
	}
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.escrowWallet.PublicKey()) {
			return &s.escrowWallet.PrivateKey
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// TransactionDetails holds the parsed details of a verified transaction
type TransactionDetails struct {
	Signature string
	Sender    string
	Receiver  string
	Amount    uint64 // in lamports
	Confirmed bool
}

// VerifyTransaction verifies if a transaction is confirmed and returns its details
func (s *SolanaClient) VerifyTransaction(ctx context.Context, txHash string) (*TransactionDetails, error) {
	sig, err := solana.SignatureFromBase58(txHash)
	if err != nil {
		return nil, err
	}

	// 1. Check status first
	status, err := s.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, err
	}

	if len(status.Value) == 0 || status.Value[0] == nil {
		return nil, nil // Not found
	}

	// Check for execution errors
	if status.Value[0].Err != nil {
		log.Printf("Transaction %s failed with error: %v", txHash, status.Value[0].Err)
		return nil, fmt.Errorf("transaction execution failed")
	}

	confStatus := status.Value[0].ConfirmationStatus
	if confStatus != rpc.ConfirmationStatusConfirmed && confStatus != rpc.ConfirmationStatusFinalized {
		return nil, nil // Not confirmed yet
	}

	// 2. Fetch full transaction content to verify amount and receiver
	tx, err := s.rpcClient.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction details: %w", err)
	}

	transaction, err := tx.Transaction.GetTransaction()
	if err != nil {
		log.Printf("Failed to decode transaction: %v", err)
		return &TransactionDetails{Signature: txHash, Confirmed: true}, nil
	}

	if len(transaction.Message.AccountKeys) < 2 {
		return &TransactionDetails{Signature: txHash, Confirmed: true}, nil
	}

	sender := transaction.Message.AccountKeys[0].String()
	receiver := transaction.Message.AccountKeys[1].String()

	// The receiver's balance delta gives the net transferred amount for
	// simple transfers where the receiver is account index 1.
	var amount uint64
	if len(tx.Meta.PreBalances) > 1 && len(tx.Meta.PostBalances) > 1 {
		preBalance := tx.Meta.PreBalances[1]
		postBalance := tx.Meta.PostBalances[1]
		if postBalance > preBalance {
			amount = postBalance - preBalance
		}
	}

	return &TransactionDetails{
		Signature: txHash,
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Confirmed: true,
	}, nil
}
