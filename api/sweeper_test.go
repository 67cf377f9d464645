package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"q4auction/adapters/memory"
	"q4auction/engine"
	"q4auction/models"
)

type failingLister struct{}

func (failingLister) ListOverdue(context.Context, time.Time, int) ([]uuid.UUID, error) {
	return nil, errors.New("connection refused")
}

func setupSweeper(t *testing.T, opts ...SweeperOption) (*memory.Repository, *testClock, *Sweeper) {
	t.Helper()
	repo := memory.NewRepository()
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	e, err := engine.New(repo, repo, engine.WithLogger(discardLogger), engine.WithClock(clock.Now))
	require.NoError(t, err)
	opts = append([]SweeperOption{WithSweeperLogger(discardLogger), WithSweeperClock(clock.Now)}, opts...)
	sweeper, err := NewSweeper(repo, e, opts...)
	require.NoError(t, err)
	return repo, clock, sweeper
}

func createDue(t *testing.T, repo *memory.Repository, endsAt time.Time, mutate func(*models.Auction)) models.Auction {
	t.Helper()
	auction := models.Auction{
		ID:           uuid.New(),
		SellerID:     uuid.New(),
		Type:         models.AuctionTypeUp,
		CurrentPrice: 100,
		BidIncrement: 10,
		Status:       models.AuctionStatusActive,
		EndsAt:       endsAt,
	}
	if mutate != nil {
		mutate(&auction)
	}
	require.NoError(t, repo.Create(context.Background(), auction))
	return auction
}

func TestNewSweeper(t *testing.T) {
	repo := memory.NewRepository()
	e, err := engine.New(repo, repo)
	require.NoError(t, err)

	_, err = NewSweeper(nil, e)
	assert.Error(t, err)
	_, err = NewSweeper(repo, nil)
	assert.Error(t, err)
	_, err = NewSweeper(repo, e, WithSweeperInterval(0))
	assert.Error(t, err)
}

func TestSweeper_Sweep(t *testing.T) {
	repo, clock, sweeper := setupSweeper(t, WithSweeperBatchSize(10))
	now := clock.Now()

	bidder, bidID := uuid.New(), uuid.New()
	withBid := createDue(t, repo, now.Add(-time.Minute), func(a *models.Auction) {
		a.HighestBidderID = &bidder
		a.HighestBidID = &bidID
		a.BidCount = 1
	})
	noBid := createDue(t, repo, now, nil)
	future := createDue(t, repo, now.Add(time.Hour), nil)

	assert.Equal(t, 2, sweeper.Sweep(context.Background()))

	got, err := repo.Get(context.Background(), withBid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusSold, got.Status)
	assert.Equal(t, bidID, *got.WinningBidID)

	got, err = repo.Get(context.Background(), noBid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusExpired, got.Status)

	got, err = repo.Get(context.Background(), future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusActive, got.Status)

	// 已經結算過的不會再出現
	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
}

func TestSweeper_ListFailure(t *testing.T) {
	repo := memory.NewRepository()
	e, err := engine.New(repo, repo, engine.WithLogger(discardLogger))
	require.NoError(t, err)
	sweeper, err := NewSweeper(failingLister{}, e, WithSweeperLogger(discardLogger))
	require.NoError(t, err)

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
}

func TestSweeper_StartAndClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo, clock, sweeper := setupSweeper(t, WithSweeperInterval(5*time.Millisecond))
	due := createDue(t, repo, clock.Now(), nil)

	require.NoError(t, sweeper.Start())
	// 重複啟動不會有作用
	require.NoError(t, sweeper.Start())

	assert.Eventually(t, func() bool {
		got, err := repo.Get(context.Background(), due.ID)
		return err == nil && got.Status == models.AuctionStatusExpired
	}, time.Second, 5*time.Millisecond)

	sweeper.Close()
	sweeper.Close()
}
