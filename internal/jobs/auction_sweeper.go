package jobs

import (
	"context"
	"log"
	"time"

	"nft-marketplace/internal/services"
)

// AuctionSweeper automatically settles expired auctions
type AuctionSweeper struct {
	auctionService *services.AuctionService
	interval       time.Duration
	stopChan       chan struct{}
}

// NewAuctionSweeper creates a new auction sweeper job
func NewAuctionSweeper(auctionService *services.AuctionService, interval time.Duration) *AuctionSweeper {
	return &AuctionSweeper{
		auctionService: auctionService,
		interval:       interval,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the settlement loop
func (as *AuctionSweeper) Start() {
	log.Printf("[Sweeper] Starting auction settlement job (interval: %v)", as.interval)

	ticker := time.NewTicker(as.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			as.settleExpiredAuctions()
		case <-as.stopChan:
			log.Println("[Sweeper] Stopping auction settlement job")
			return
		}
	}
}

// Stop stops the settlement loop
func (as *AuctionSweeper) Stop() {
	close(as.stopChan)
}

// settleExpiredAuctions finds and settles all expired, unsettled auctions
func (as *AuctionSweeper) settleExpiredAuctions() {
	ctx := context.Background()

	auctions, err := as.auctionService.GetExpiredUnsettled(ctx, 100)
	if err != nil {
		log.Printf("[Sweeper] Error fetching expired auctions: %v", err)
		return
	}

	if len(auctions) == 0 {
		return
	}

	log.Printf("[Sweeper] Settling %d expired auctions", len(auctions))

	settledCount := 0
	for _, auction := range auctions {
		if _, err := as.auctionService.Settle(ctx, auction.ID); err != nil {
			// Another caller may have settled it between the query and here
			if err == services.ErrAlreadySettled {
				continue
			}
			log.Printf("[Sweeper] Error settling auction %d: %v", auction.ID, err)
			continue
		}

		settledCount++
		log.Printf("[Sweeper] Settled auction %d", auction.ID)
	}

	if settledCount > 0 {
		log.Printf("[Sweeper] Settled %d auctions this pass", settledCount)
	}
}
