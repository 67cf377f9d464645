package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"q4auction/engine"
	"q4auction/models"
)

// Repository 是併發安全的記憶體儲存，實作拍賣的條件寫入與出價 ledger
type Repository struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]models.Auction // key: auctionID -> value: auction
	bids     map[uuid.UUID][]models.Bid   // key: auctionID -> value: 依寫入順序排列的出價紀錄
}

func NewRepository() *Repository {
	return &Repository{
		auctions: make(map[uuid.UUID]models.Auction),
		bids:     make(map[uuid.UUID][]models.Bid),
	}
}

// Create 新增一場拍賣
func (r *Repository) Create(ctx context.Context, auction models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auction.ID]; ok {
		return fmt.Errorf("create auction %s: already exists", auction.ID)
	}
	r.auctions[auction.ID] = auction
	return nil
}

// Get 讀取拍賣
func (r *Repository) Get(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, engine.ErrNotFound)
	}
	return auction, nil
}

// LoadForUpdate 讀取拍賣目前的狀態，寫入時由 Commit 比對版本
func (r *Repository) LoadForUpdate(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	return r.Get(ctx, auctionID)
}

// Commit 在版本相符時寫入新狀態與出價紀錄
func (r *Repository) Commit(ctx context.Context, transition engine.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := transition.Auction.ID
	stored, ok := r.auctions[id]
	if !ok {
		return fmt.Errorf("commit auction %s: %w", id, engine.ErrNotFound)
	}
	if stored.Version != transition.ExpectedVersion {
		return fmt.Errorf("commit auction %s: stored version %d, expected %d: %w", id, stored.Version, transition.ExpectedVersion, engine.ErrVersionConflict)
	}
	r.auctions[id] = transition.Auction
	if transition.Bid != nil {
		r.bids[id] = append(r.bids[id], *transition.Bid)
	}
	return nil
}

// Append 寫入一筆不改變拍賣狀態的出價紀錄
func (r *Repository) Append(ctx context.Context, bid models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[bid.AuctionID]; !ok {
		return fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, engine.ErrNotFound)
	}
	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)
	return nil
}

// ListBids 回傳拍賣的所有出價紀錄，最新的在前
func (r *Repository) ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, engine.ErrNotFound)
	}
	bids := slices.Clone(r.bids[auctionID])
	slices.Reverse(bids)
	return bids, nil
}

// ListOverdue 回傳已經到期但仍是 Active 的拍賣 ID，最早到期的在前
func (r *Repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overdue := make([]models.Auction, 0)
	for _, auction := range r.auctions {
		if auction.Status == models.AuctionStatusActive && !now.Before(auction.EndsAt) {
			overdue = append(overdue, auction)
		}
	}
	slices.SortFunc(overdue, func(a, b models.Auction) int {
		return a.EndsAt.Compare(b.EndsAt)
	})
	if limit > 0 && len(overdue) > limit {
		overdue = overdue[:limit]
	}
	ids := make([]uuid.UUID, len(overdue))
	for i, auction := range overdue {
		ids[i] = auction.ID
	}
	return ids, nil
}

// ListAuctions 依查詢條件列出拍賣
func (r *Repository) ListAuctions(ctx context.Context, query models.AuctionQuery) ([]models.Auction, error) {
	r.mu.RLock()
	auctions := make([]models.Auction, 0, len(r.auctions))
	for _, auction := range r.auctions {
		auctions = append(auctions, auction)
	}
	r.mu.RUnlock()

	return query.Apply(auctions)
}
