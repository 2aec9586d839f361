package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"
)

// MaxFeeBps caps operator-settable fee percentages at 20%.
const MaxFeeBps = 2_000

// AdminService holds the operator-gated mutators: fee parameters, fee
// recipient, the registrar set and the collection fee-tier registry.
type AdminService struct {
	repo     *repository.Repository
	defaults models.PlatformConfig
}

func NewAdminService(repo *repository.Repository, defaults models.PlatformConfig) *AdminService {
	return &AdminService{
		repo:     repo,
		defaults: defaults,
	}
}

// GetPlatformConfig returns the current settlement parameters
func (s *AdminService) GetPlatformConfig(ctx context.Context) (*models.PlatformConfig, error) {
	return s.repo.GetPlatformConfig(ctx, s.defaults)
}

// SetFees updates the two fee tiers
func (s *AdminService) SetFees(ctx context.Context, caller *models.User, standardBps, platformBps int64) (*models.PlatformConfig, error) {
	if !caller.IsOperator {
		return nil, ErrNotOperator
	}
	if standardBps < 0 || standardBps > MaxFeeBps || platformBps < 0 || platformBps > MaxFeeBps {
		return nil, fmt.Errorf("fee out of range [0, %d] basis points", MaxFeeBps)
	}

	cfg, err := s.repo.GetPlatformConfig(ctx, s.defaults)
	if err != nil {
		return nil, err
	}
	cfg.StandardFeeBps = standardBps
	cfg.PlatformFeeBps = platformBps
	cfg.UpdatedAt = time.Now()
	if err := s.repo.SavePlatformConfig(ctx, cfg); err != nil {
		return nil, err
	}

	log.Printf("[Admin] Fees updated by %s: standard=%d platform=%d", caller.WalletAddress, standardBps, platformBps)
	return cfg, nil
}

// SetFeeRecipient updates the platform fee recipient wallet
func (s *AdminService) SetFeeRecipient(ctx context.Context, caller *models.User, recipient string) (*models.PlatformConfig, error) {
	if !caller.IsOperator {
		return nil, ErrNotOperator
	}
	if recipient == "" {
		return nil, fmt.Errorf("fee recipient must not be empty")
	}

	cfg, err := s.repo.GetPlatformConfig(ctx, s.defaults)
	if err != nil {
		return nil, err
	}
	cfg.FeeRecipient = recipient
	cfg.UpdatedAt = time.Now()
	if err := s.repo.SavePlatformConfig(ctx, cfg); err != nil {
		return nil, err
	}

	log.Printf("[Admin] Fee recipient updated by %s: %s", caller.WalletAddress, recipient)
	return cfg, nil
}

// AddRegistrar authorizes a wallet to flag collections
func (s *AdminService) AddRegistrar(ctx context.Context, caller *models.User, wallet string) error {
	if !caller.IsOperator {
		return ErrNotOperator
	}
	return s.repo.AddRegistrar(ctx, &models.AuthorizedRegistrar{
		Wallet:  wallet,
		AddedBy: caller.WalletAddress,
	})
}

// RemoveRegistrar revokes a registrar wallet
func (s *AdminService) RemoveRegistrar(ctx context.Context, caller *models.User, wallet string) error {
	if !caller.IsOperator {
		return ErrNotOperator
	}
	return s.repo.RemoveRegistrar(ctx, wallet)
}

// ListRegistrars returns the authorized registrar wallets
func (s *AdminService) ListRegistrars(ctx context.Context, caller *models.User) ([]*models.AuthorizedRegistrar, error) {
	if !caller.IsOperator {
		return nil, ErrNotOperator
	}
	return s.repo.ListRegistrars(ctx)
}

// SetCollectionFeeTier flags or unflags a collection as
// platform-originated. Callable by the operator or an authorized
// registrar.
func (s *AdminService) SetCollectionFeeTier(ctx context.Context, caller *models.User, collection string, platformOriginated bool) error {
	if !caller.IsOperator {
		authorized, err := s.repo.IsAuthorizedRegistrar(ctx, caller.WalletAddress)
		if err != nil {
			return err
		}
		if !authorized {
			return ErrNotRegistrar
		}
	}

	tier := &models.CollectionFeeTier{
		Collection:         collection,
		PlatformOriginated: platformOriginated,
		RegisteredBy:       caller.WalletAddress,
		UpdatedAt:          time.Now(),
	}
	if err := s.repo.UpsertFeeTier(ctx, tier); err != nil {
		return err
	}

	log.Printf("[Admin] Collection %s fee tier set by %s: platformOriginated=%v",
		collection, caller.WalletAddress, platformOriginated)
	return nil
}
