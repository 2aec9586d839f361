package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	App         AppConfig
	Solana      SolanaConfig
	Marketplace MarketplaceConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
}

// SolanaConfig holds blockchain settings
type SolanaConfig struct {
	Network                string
	TokenMintAddress       string
	TokenDecimals          int64
	EscrowWalletPrivateKey string
}

// MarketplaceConfig holds settlement-engine settings
type MarketplaceConfig struct {
	FeeRecipient    string
	StandardFeeBps  int64
	PlatformFeeBps  int64
	RoyaltyFloorBps int64
	RoyaltyCapBps   int64
	AntiSnipeWindow time.Duration
	MinDuration     time.Duration
	MaxDuration     time.Duration
	MirrorURL       string // empty disables the indexing mirror
	SweepInterval   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "nft_marketplace"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Solana: SolanaConfig{
			Network:                getEnv("SOLANA_NETWORK", "devnet"),
			TokenMintAddress:       getEnv("TOKEN_MINT_ADDRESS", ""),
			TokenDecimals:          getEnvInt64("TOKEN_DECIMALS", 6),
			EscrowWalletPrivateKey: getEnv("ESCROW_WALLET_PRIVATE_KEY", ""),
		},
		Marketplace: MarketplaceConfig{
			FeeRecipient:    getEnv("FEE_RECIPIENT", ""),
			StandardFeeBps:  getEnvInt64("STANDARD_FEE_BPS", 200),
			PlatformFeeBps:  getEnvInt64("PLATFORM_FEE_BPS", 500),
			RoyaltyFloorBps: getEnvInt64("ROYALTY_FLOOR_BPS", 0),
			RoyaltyCapBps:   getEnvInt64("ROYALTY_CAP_BPS", 1000),
			AntiSnipeWindow: getEnvDuration("ANTI_SNIPE_WINDOW", 10*time.Minute),
			MinDuration:     getEnvDuration("MIN_AUCTION_DURATION", time.Hour),
			MaxDuration:     getEnvDuration("MAX_AUCTION_DURATION", 30*24*time.Hour),
			MirrorURL:       getEnv("INDEXER_MIRROR_URL", ""),
			SweepInterval:   getEnvDuration("SETTLEMENT_SWEEP_INTERVAL", time.Minute),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.Marketplace.FeeRecipient == "" {
		return nil, fmt.Errorf("FEE_RECIPIENT is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
