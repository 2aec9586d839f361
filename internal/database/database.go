package database

import (
	"fmt"
	"log"

	"nft-marketplace/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Migrate core sale models first
	coreModels := []interface{}{
		&models.User{},
		&models.Auction{},
		&models.FixedPriceListing{},
		&models.Bid{},
		&models.MaxBid{},
	}

	for _, model := range coreModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate registry models
	registryModels := []interface{}{
		&models.AssetCreator{},
		&models.CollectionFeeTier{},
		&models.AuthorizedRegistrar{},
		&models.PlatformConfig{},
	}

	for _, model := range registryModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate accounting models
	accountingModels := []interface{}{
		&models.PendingWithdrawal{},
		&models.SettlementTransaction{},
	}

	for _, model := range accountingModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
