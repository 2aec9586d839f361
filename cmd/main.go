package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nft-marketplace/internal/auth"
	"nft-marketplace/internal/blockchain"
	"nft-marketplace/internal/config"
	"nft-marketplace/internal/database"
	"nft-marketplace/internal/handlers"
	"nft-marketplace/internal/jobs"
	"nft-marketplace/internal/models"
	"nft-marketplace/internal/repository"
	"nft-marketplace/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize Solana client and escrow adapters
	solanaClient := blockchain.NewSolanaClient(
		cfg.Solana.Network,
		cfg.Solana.EscrowWalletPrivateKey,
	)

	nativeEscrow := blockchain.NewNativeEscrow(solanaClient)
	custody := blockchain.NewNFTCustody(solanaClient)
	royaltyOracle := blockchain.NewRoyaltyOracle(solanaClient)

	// Payment rails. The token rail is only wired when a mint is
	// configured; the native rail is always available.
	rails := map[models.CurrencyRail]services.PaymentRail{
		models.RailNative: services.NewNativeRail(nativeEscrow),
	}
	if cfg.Solana.TokenMintAddress != "" {
		vault, err := blockchain.NewTokenVault(solanaClient, cfg.Solana.TokenMintAddress, uint8(cfg.Solana.TokenDecimals))
		if err != nil {
			log.Fatalf("Failed to initialize token vault: %v", err)
		}
		rails[models.RailToken] = services.NewTokenRail(vault)
	} else {
		log.Println("TOKEN_MINT_ADDRESS not set; token rail disabled")
	}

	// Fallback fee/royalty defaults for the platform config row
	defaults := models.PlatformConfig{
		StandardFeeBps:  cfg.Marketplace.StandardFeeBps,
		PlatformFeeBps:  cfg.Marketplace.PlatformFeeBps,
		FeeRecipient:    cfg.Marketplace.FeeRecipient,
		RoyaltyFloorBps: cfg.Marketplace.RoyaltyFloorBps,
		RoyaltyCapBps:   cfg.Marketplace.RoyaltyCapBps,
	}

	// Optional off-chain indexing mirror
	mirror := services.NewMirrorNotifier(cfg.Marketplace.MirrorURL)

	// Initialize services
	authService := services.NewAuthService(database.GetDB())
	settlementService := services.NewSettlementService(custody, rails, defaults)
	auctionService := services.NewAuctionService(repo, settlementService, custody, royaltyOracle, rails, mirror, cfg.Marketplace)
	listingService := services.NewListingService(repo, settlementService, custody, royaltyOracle, rails, mirror, cfg.Marketplace)
	treasuryService := services.NewTreasuryService(repo, rails)
	adminService := services.NewAdminService(repo, defaults)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	auctionHandler := handlers.NewAuctionHandler(auctionService, authService)
	listingHandler := handlers.NewListingHandler(listingService, authService)
	treasuryHandler := handlers.NewTreasuryHandler(treasuryService, authService)
	adminHandler := handlers.NewAdminHandler(adminService, authService)

	// Start settlement sweeper (settles expired auctions)
	sweeper := jobs.NewAuctionSweeper(auctionService, cfg.Marketplace.SweepInterval)
	go sweeper.Start()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/wallet", authHandler.WalletLogin)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public read routes
	router.GET("/api/auctions", auctionHandler.ListAuctions)
	router.GET("/api/auctions/:id", auctionHandler.GetAuction)
	router.GET("/api/auctions/:id/bids", auctionHandler.GetBidHistory)
	router.GET("/api/listings", listingHandler.ListListings)
	router.GET("/api/listings/:id", listingHandler.GetListing)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Auction endpoints
		api.POST("/auctions", auctionHandler.CreateAuction)
		api.POST("/auctions/:id/bids", auctionHandler.PlaceBid)
		api.POST("/auctions/:id/settle", auctionHandler.Settle)
		api.POST("/auctions/:id/cancel", auctionHandler.Cancel)

		// Listing endpoints
		api.POST("/listings", listingHandler.CreateListing)
		api.POST("/listings/:id/buy", listingHandler.Buy)
		api.PUT("/listings/:id", listingHandler.Edit)
		api.POST("/listings/:id/cancel", listingHandler.Cancel)

		// Treasury endpoints
		api.GET("/treasury/pending", treasuryHandler.GetPendingWithdrawal)
		api.POST("/treasury/withdraw", treasuryHandler.Withdraw)
	}

	// Admin routes (protected; operator checks live in the services)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	{
		admin.GET("/config", adminHandler.GetPlatformConfig)
		admin.PUT("/fees", adminHandler.SetFees)
		admin.PUT("/fee-recipient", adminHandler.SetFeeRecipient)

		admin.GET("/registrars", adminHandler.ListRegistrars)
		admin.POST("/registrars", adminHandler.AddRegistrar)
		admin.DELETE("/registrars/:wallet", adminHandler.RemoveRegistrar)

		admin.PUT("/collections/:collection/fee-tier", adminHandler.SetCollectionFeeTier)

		admin.GET("/treasury/locked", treasuryHandler.GetLockedFunds)
		admin.POST("/treasury/emergency-withdraw", treasuryHandler.EmergencyWithdraw)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)
		log.Printf("Wallet auth: POST http://localhost:%s/auth/wallet", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sweeper.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
