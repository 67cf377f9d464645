package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q4auction/engine"
	"q4auction/models"
)

func newTestAuction(now time.Time) models.Auction {
	return models.Auction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Title:         "oak bookshelf",
		Type:          models.AuctionTypeUp,
		StartingPrice: 100,
		CurrentPrice:  100,
		BidIncrement:  10,
		Visibility:    models.BidVisibilityPublic,
		Status:        models.AuctionStatusActive,
		EndsAt:        now.Add(time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	auction := newTestAuction(time.Now())

	require.NoError(t, repo.Create(ctx, auction))
	assert.Error(t, repo.Create(ctx, auction))

	got, err := repo.Get(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, auction, got)

	_, err = repo.LoadForUpdate(ctx, uuid.New())
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestRepository_Commit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	auction := newTestAuction(time.Now())
	require.NoError(t, repo.Create(ctx, auction))

	next := auction
	next.CurrentPrice = 150
	next.Version = 1
	bid := models.Bid{ID: uuid.New(), AuctionID: auction.ID, BidderID: uuid.New(), Amount: 150, Outcome: models.BidOutcomeAccepted}
	require.NoError(t, repo.Commit(ctx, engine.Transition{ExpectedVersion: 0, Auction: next, Bid: &bid}))

	got, err := repo.Get(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.CurrentPrice)
	assert.Equal(t, int64(1), got.Version)

	// 舊版本的寫入被拒絕且不留下出價紀錄
	stale := auction
	stale.CurrentPrice = 999
	stale.Version = 1
	other := models.Bid{ID: uuid.New(), AuctionID: auction.ID, BidderID: uuid.New(), Amount: 999}
	err = repo.Commit(ctx, engine.Transition{ExpectedVersion: 0, Auction: stale, Bid: &other})
	assert.ErrorIs(t, err, engine.ErrVersionConflict)

	bids, err := repo.ListBids(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Bid{bid}, bids)

	missing := newTestAuction(time.Now())
	err = repo.Commit(ctx, engine.Transition{Auction: missing})
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestRepository_AppendAndListBids(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	auction := newTestAuction(time.Now())
	require.NoError(t, repo.Create(ctx, auction))

	first := models.Bid{ID: uuid.New(), AuctionID: auction.ID, Amount: 100, Outcome: models.BidOutcomeRejected}
	second := models.Bid{ID: uuid.New(), AuctionID: auction.ID, Amount: 90, Outcome: models.BidOutcomeRejected}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	bids, err := repo.ListBids(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Bid{second, first}, bids)

	err = repo.Append(ctx, models.Bid{ID: uuid.New(), AuctionID: uuid.New()})
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestRepository_ListOverdue(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	late := newTestAuction(now)
	late.EndsAt = now.Add(-time.Hour)
	due := newTestAuction(now)
	due.EndsAt = now
	future := newTestAuction(now)
	closed := newTestAuction(now)
	closed.EndsAt = now.Add(-2 * time.Hour)
	closed.Status = models.AuctionStatusSold
	for _, a := range []models.Auction{late, due, future, closed} {
		require.NoError(t, repo.Create(ctx, a))
	}

	ids, err := repo.ListOverdue(ctx, now, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{late.ID, due.ID}, ids)

	ids, err = repo.ListOverdue(ctx, now, 1)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{late.ID}, ids)
}

func TestRepository_ListAuctions(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	now := time.Now()

	a := newTestAuction(now)
	b := newTestAuction(now)
	b.EndsAt = now.Add(2 * time.Hour)
	b.Status = models.AuctionStatusCancelled
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.ListAuctions(ctx, models.AuctionQuery{})
	require.NoError(t, err)
	assert.Equal(t, []models.Auction{a, b}, got)

	got, err = repo.ListAuctions(ctx, models.AuctionQuery{Status: lo.ToPtr(models.AuctionStatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, []models.Auction{b}, got)

	_, err = repo.ListAuctions(ctx, models.AuctionQuery{LastID: lo.ToPtr(uuid.New())})
	assert.ErrorIs(t, err, models.ErrCursorNotFound)
}
