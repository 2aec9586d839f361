package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"nft-marketplace/internal/models"
)

// MirrorNotifier pushes marketplace events to the downstream read-only
// indexing mirror. Every call is best-effort: failures are logged and
// never propagated, so a broken mirror cannot block bidding or
// settlement. A nil notifier (no mirror configured) is a no-op.
type MirrorNotifier struct {
	httpClient *http.Client
	baseURL    string
}

// NewMirrorNotifier creates a notifier for the given mirror base URL.
// Returns nil when the URL is empty, which disables mirroring.
func NewMirrorNotifier(baseURL string) *MirrorNotifier {
	if baseURL == "" {
		return nil
	}
	return &MirrorNotifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// RecordAuction mirrors a new auction or listing
func (m *MirrorNotifier) RecordAuction(ctx context.Context, auction *models.Auction) {
	m.post(ctx, "/mirror/auctions", auction)
}

// RecordListing mirrors a new fixed-price listing
func (m *MirrorNotifier) RecordListing(ctx context.Context, listing *models.FixedPriceListing) {
	m.post(ctx, "/mirror/listings", listing)
}

// RecordBid mirrors an accepted bid
func (m *MirrorNotifier) RecordBid(ctx context.Context, bid *models.Bid) {
	m.post(ctx, "/mirror/bids", bid)
}

// RecordSettled mirrors a completed settlement
func (m *MirrorNotifier) RecordSettled(ctx context.Context, payload interface{}) {
	m.post(ctx, "/mirror/settlements", payload)
}

// RecordCanceled mirrors a cancellation, including no-bid expiries
func (m *MirrorNotifier) RecordCanceled(ctx context.Context, payload interface{}) {
	m.post(ctx, "/mirror/cancellations", payload)
}

// post sends one event and swallows every failure
func (m *MirrorNotifier) post(ctx context.Context, path string, payload interface{}) {
	if m == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Mirror] Failed to encode payload for %s: %v", path, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		log.Printf("[Mirror] Failed to build request for %s: %v", path, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[Mirror] Notification to %s failed: %v", path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Mirror] Notification to %s rejected: %s", path, fmt.Sprintf("status %d", resp.StatusCode))
	}
}
