package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"

	"github.com/google/uuid"
)

// TreasuryService accounts for escrowed funds. It drains the pull-payment
// ledger for outbid bidders and bounds operator emergency withdrawals so
// escrowed bidder funds can never be swept.
type TreasuryService struct {
	repo  *repository.Repository
	rails map[models.CurrencyRail]PaymentRail

	mu sync.Mutex
}

func NewTreasuryService(repo *repository.Repository, rails map[models.CurrencyRail]PaymentRail) *TreasuryService {
	return &TreasuryService{
		repo:  repo,
		rails: rails,
	}
}

// PendingWithdrawal returns what the wallet can currently withdraw
func (s *TreasuryService) PendingWithdrawal(ctx context.Context, wallet string) (int64, error) {
	return s.repo.GetPendingWithdrawal(ctx, wallet)
}

// Withdraw drains the caller's pull-payment ledger balance and pushes it
// out on the native rail. The ledger zeroing and the transfer sit in one
// transaction, so a failed push re-credits the balance.
func (s *TreasuryService) Withdraw(ctx context.Context, wallet string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rail, ok := s.rails[models.RailNative]
	if !ok {
		return 0, ErrUnknownRail
	}

	var amount int64
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		amount, err = txRepo.DrainPendingWithdrawal(ctx, wallet)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrNothingWithdrawable
		}

		txHash, err := rail.Payout(ctx, wallet, amount)
		if err != nil {
			return fmt.Errorf("withdrawal transfer failed: %w", err)
		}

		row := &models.SettlementTransaction{
			ID:        uuid.New(),
			TxType:    models.SettlementTxTypeWithdrawal,
			Wallet:    wallet,
			Amount:    amount,
			Rail:      models.RailNative,
			TxHash:    &txHash,
			Status:    models.SettlementTxStatusConfirmed,
			CreatedAt: time.Now(),
		}
		return txRepo.CreateSettlementTransaction(ctx, row)
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[Treasury] %s withdrew %d from the pending ledger", wallet, amount)
	return amount, nil
}

// LockedNative sums the escrowed high bids of active native-rail auctions
func (s *TreasuryService) LockedNative(ctx context.Context) (int64, error) {
	return s.repo.SumHighestBidsByRail(ctx, models.RailNative)
}

// LockedToken sums the escrowed high bids of active token-rail auctions
func (s *TreasuryService) LockedToken(ctx context.Context) (int64, error) {
	return s.repo.SumHighestBidsByRail(ctx, models.RailToken)
}

// EmergencyWithdraw moves funds stuck outside the normal flow to a
// recipient. Operator only; the amount is capped at the escrow balance
// minus everything owed to participants: locked high bids, plus the
// pending-withdrawal ledger on the native rail.
func (s *TreasuryService) EmergencyWithdraw(ctx context.Context, operator *models.User, railName models.CurrencyRail, to string, amount int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !operator.IsOperator {
		return "", ErrNotOperator
	}
	if amount <= 0 {
		return "", ErrInvalidPrice
	}

	rail, ok := s.rails[railName]
	if !ok {
		return "", ErrUnknownRail
	}

	locked, err := s.repo.SumHighestBidsByRail(ctx, railName)
	if err != nil {
		return "", fmt.Errorf("failed to compute locked funds: %w", err)
	}
	if railName == models.RailNative {
		owed, err := s.repo.SumPendingWithdrawals(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to compute pending withdrawals: %w", err)
		}
		locked += owed
	}

	balance, err := rail.EscrowBalance(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read escrow balance: %w", err)
	}

	if amount > balance-locked {
		return "", ErrExceedsUnlocked
	}

	txHash, err := rail.Payout(ctx, to, amount)
	if err != nil {
		return "", fmt.Errorf("emergency withdrawal failed: %w", err)
	}

	row := &models.SettlementTransaction{
		ID:        uuid.New(),
		TxType:    models.SettlementTxTypeEmergency,
		Wallet:    to,
		Amount:    amount,
		Rail:      railName,
		TxHash:    &txHash,
		Status:    models.SettlementTxStatusConfirmed,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateSettlementTransaction(ctx, row); err != nil {
		log.Printf("Warning: failed to record emergency withdrawal: %v", err)
	}

	log.Printf("[Treasury] Emergency withdrawal of %d on %s rail to %s", amount, railName, to)
	return txHash, nil
}
