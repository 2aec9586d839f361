package services

import (
	"fmt"

	"gorm.io/gorm"

	"nft-marketplace/internal/models"
)

// AuthService handles authentication business logic
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// ProcessWalletLogin finds or creates a user by wallet address
func (s *AuthService) ProcessWalletLogin(walletAddress string) (*models.User, error) {
	var user models.User

	result := s.db.Where("wallet_address = ?", walletAddress).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		// New user, create the account
		user = models.User{
			WalletAddress: walletAddress,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil
	}

	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up user: %w", result.Error)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
