package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"q4auction/engine"
	"q4auction/models"
)

func setupTest(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 每個連線都是獨立的 in-memory 資料庫，只能使用一個連線
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	repo, err := NewRepository(db)
	require.NoError(t, err)
	return repo
}

func newTestAuction(now time.Time) models.Auction {
	return models.Auction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Title:         "mechanical keyboard",
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

func TestNewRepository(t *testing.T) {
	_, err := NewRepository(nil)
	assert.EqualError(t, err, "db cannot be nil")
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	auction := newTestAuction(now)
	auction.InstantPrice = lo.ToPtr[int64](900)
	require.NoError(t, repo.Create(ctx, auction))

	got, err := repo.Get(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, auction.ID, got.ID)
	assert.Equal(t, auction.SellerID, got.SellerID)
	assert.Equal(t, int64(900), *got.InstantPrice)
	assert.Nil(t, got.HighestBidderID)
	assert.True(t, auction.EndsAt.Equal(got.EndsAt))

	err = repo.Create(ctx, auction)
	assert.ErrorContains(t, err, "already exists")

	_, err = repo.LoadForUpdate(ctx, uuid.New())
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestRepository_Commit(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	auction := newTestAuction(now)
	require.NoError(t, repo.Create(ctx, auction))

	bidder := uuid.New()
	bid := models.Bid{
		ID:        uuid.New(),
		AuctionID: auction.ID,
		BidderID:  bidder,
		Amount:    150,
		MaxBid:    lo.ToPtr[int64](300),
		Outcome:   models.BidOutcomeAccepted,
		CreatedAt: now,
	}
	next := auction
	next.CurrentPrice = 150
	next.HighestBidderID = lo.ToPtr(bidder)
	next.HighestBidID = lo.ToPtr(bid.ID)
	next.StandingMaxBid = lo.ToPtr[int64](300)
	next.BidCount = 1
	next.Version = 1

	require.NoError(t, repo.Commit(ctx, engine.Transition{ExpectedVersion: 0, Auction: next, Bid: &bid}))

	got, err := repo.Get(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, int64(150), got.CurrentPrice)
	assert.Equal(t, bidder, *got.HighestBidderID)
	assert.Equal(t, int64(300), *got.StandingMaxBid)

	t.Run("stale version leaves state and ledger untouched", func(t *testing.T) {
		stale := next
		stale.CurrentPrice = 999
		other := models.Bid{ID: uuid.New(), AuctionID: auction.ID, BidderID: uuid.New(), Amount: 999, Outcome: models.BidOutcomeAccepted, CreatedAt: now}
		err := repo.Commit(ctx, engine.Transition{ExpectedVersion: 0, Auction: stale, Bid: &other})
		assert.ErrorIs(t, err, engine.ErrVersionConflict)

		got, err := repo.Get(ctx, auction.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(150), got.CurrentPrice)
		bids, err := repo.ListBids(ctx, auction.ID)
		require.NoError(t, err)
		assert.Len(t, bids, 1)
	})

	t.Run("sold state keeps the winner", func(t *testing.T) {
		sold := next
		sold.Status = models.AuctionStatusSold
		sold.WinningBidID = lo.ToPtr(bid.ID)
		sold.ClosedAt = lo.ToPtr(now)
		sold.Version = 2
		require.NoError(t, repo.Commit(ctx, engine.Transition{ExpectedVersion: 1, Auction: sold}))

		got, err := repo.Get(ctx, auction.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AuctionStatusSold, got.Status)
		assert.Equal(t, bid.ID, *got.WinningBidID)
		assert.Equal(t, bidder, *got.HighestBidderID)
	})

	t.Run("missing auction", func(t *testing.T) {
		err := repo.Commit(ctx, engine.Transition{ExpectedVersion: 0, Auction: newTestAuction(now)})
		assert.ErrorIs(t, err, engine.ErrNotFound)
	})
}

func TestRepository_AppendAndListBids(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	auction := newTestAuction(now)
	require.NoError(t, repo.Create(ctx, auction))

	older := models.Bid{ID: uuid.New(), AuctionID: auction.ID, BidderID: uuid.New(), Amount: 10, Outcome: models.BidOutcomeRejected, Reason: "invalid_amount", CreatedAt: now}
	newer := models.Bid{ID: uuid.New(), AuctionID: auction.ID, BidderID: uuid.New(), Amount: 20, Outcome: models.BidOutcomeRejected, Reason: "invalid_amount", CreatedAt: now.Add(time.Second)}
	require.NoError(t, repo.Append(ctx, older))
	require.NoError(t, repo.Append(ctx, newer))

	bids, err := repo.ListBids(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, newer.ID, bids[0].ID)
	assert.Equal(t, older.ID, bids[1].ID)

	err = repo.Append(ctx, models.Bid{ID: uuid.New(), AuctionID: uuid.New(), CreatedAt: now})
	assert.ErrorIs(t, err, engine.ErrNotFound)

	_, err = repo.ListBids(ctx, uuid.New())
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestRepository_ListOverdue(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := newTestAuction(now)
	first.EndsAt = now.Add(-2 * time.Minute)
	second := newTestAuction(now)
	second.EndsAt = now
	future := newTestAuction(now)
	closed := newTestAuction(now)
	closed.EndsAt = now.Add(-time.Hour)
	closed.Status = models.AuctionStatusCancelled
	for _, a := range []models.Auction{second, future, first, closed} {
		require.NoError(t, repo.Create(ctx, a))
	}

	ids, err := repo.ListOverdue(ctx, now, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, ids)

	ids, err = repo.ListOverdue(ctx, now, 1)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ids)
}

func TestRepository_ListAuctions(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	seller := uuid.New()
	for i, price := range []int64{300, 100, 200} {
		a := newTestAuction(now)
		a.SellerID = seller
		a.CurrentPrice = price
		a.EndsAt = now.Add(time.Duration(i+1) * time.Hour)
		require.NoError(t, repo.Create(ctx, a))
	}
	other := newTestAuction(now)
	other.Title = "fountain pen"
	other.Status = models.AuctionStatusSold
	require.NoError(t, repo.Create(ctx, other))

	t.Run("filter by seller and sort by price", func(t *testing.T) {
		got, err := repo.ListAuctions(ctx, models.AuctionQuery{SellerID: &seller, SortKey: models.SortByCurrentPrice})
		require.NoError(t, err)
		prices := lo.Map(got, func(a models.Auction, _ int) int64 { return a.CurrentPrice })
		assert.Equal(t, []int64{100, 200, 300}, prices)
	})

	t.Run("cursor pagination descending", func(t *testing.T) {
		query := models.AuctionQuery{SellerID: &seller, SortKey: models.SortByCurrentPrice, Desc: true, Limit: 2}
		page, err := repo.ListAuctions(ctx, query)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, int64(300), page[0].CurrentPrice)
		assert.Equal(t, int64(200), page[1].CurrentPrice)

		query.LastID = lo.ToPtr(page[1].ID)
		page, err = repo.ListAuctions(ctx, query)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, int64(100), page[0].CurrentPrice)
	})

	t.Run("filter by status and title", func(t *testing.T) {
		got, err := repo.ListAuctions(ctx, models.AuctionQuery{Status: lo.ToPtr(models.AuctionStatusSold), Title: "pen"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, other.ID, got[0].ID)
	})

	t.Run("unknown cursor", func(t *testing.T) {
		_, err := repo.ListAuctions(ctx, models.AuctionQuery{LastID: lo.ToPtr(uuid.New())})
		assert.ErrorIs(t, err, models.ErrCursorNotFound)
	})
}

func TestRepository_Notifications(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	user := uuid.New()
	older := models.Notification{ID: uuid.New(), UserID: user, Kind: models.EventOutbid, AuctionID: uuid.New(), Price: 120, Status: models.AuctionStatusActive, EventTime: now}
	newer := models.Notification{ID: uuid.New(), UserID: user, Kind: models.EventWon, AuctionID: uuid.New(), Price: 500, Status: models.AuctionStatusSold, EventTime: now.Add(time.Minute)}
	require.NoError(t, repo.SaveNotification(ctx, older))
	require.NoError(t, repo.SaveNotification(ctx, newer))
	// 重送的訊息不會產生重複紀錄
	require.NoError(t, repo.SaveNotification(ctx, newer))
	require.NoError(t, repo.SaveNotification(ctx, models.Notification{ID: uuid.New(), UserID: uuid.New(), Kind: models.EventSold, AuctionID: uuid.New(), Status: models.AuctionStatusSold, EventTime: now}))

	got, err := repo.ListNotifications(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	got, err = repo.ListNotifications(ctx, user, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRepository_RunsWithEngine(t *testing.T) {
	repo := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	e, err := engine.New(repo, repo, engine.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	auction := newTestAuction(now)
	auction.Type = models.AuctionTypeDown
	auction.BidIncrement = 0
	require.NoError(t, repo.Create(ctx, auction))

	buyer := uuid.New()
	result, err := e.SubmitBid(ctx, engine.BidRequest{AuctionID: auction.ID, BidderID: buyer, Amount: 100})
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, models.AuctionStatusSold, result.Status)

	_, err = e.SubmitBid(ctx, engine.BidRequest{AuctionID: auction.ID, BidderID: uuid.New(), Amount: 100})
	assert.ErrorIs(t, err, engine.ErrAuctionClosed)

	got, err := repo.Get(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusSold, got.Status)
	assert.Equal(t, buyer, *got.HighestBidderID)
	assert.Equal(t, result.BidID, *got.WinningBidID)
}
