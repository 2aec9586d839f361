package main

import (
	"log"
	"os"

	"nft-marketplace/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Migration file defaults to the baseline schema, override with an argument
	file := "migrations/001_init_schema.sql"
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	sqlBytes, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	log.Printf("Applying migration: %s", file)
	if err := db.Exec(string(sqlBytes)).Error; err != nil {
		log.Fatalf("Failed to apply migration: %v", err)
	}

	log.Println("✅ Migration applied successfully!")
}
