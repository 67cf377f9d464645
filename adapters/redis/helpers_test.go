package redis

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"q4auction/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupTest(t *testing.T) (*redis.Client, redismock.ClientMock, func()) {
	db, mock := redismock.NewClientMock()
	return db, mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

// setupMiniredis 啟動一個 miniredis，回傳的 cleanup 會關閉 client 與 server
func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client, func() {
		client.Close()
		mr.Close()
	}
}

func newTestAuction(now time.Time) models.Auction {
	return models.Auction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Title:         "vintage camera",
		Type:          models.AuctionTypeUp,
		StartingPrice: 100,
		CurrentPrice:  100,
		BidIncrement:  10,
		InstantPrice:  lo.ToPtr[int64](500),
		Visibility:    models.BidVisibilityPublic,
		Status:        models.AuctionStatusActive,
		EndsAt:        now.Add(time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
