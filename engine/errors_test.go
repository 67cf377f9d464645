package engine_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q4auction/engine"
	"q4auction/models"
)

func TestPriceError(t *testing.T) {
	f := setupEngine(t)
	alice, bob := uuid.New(), uuid.New()

	t.Run("up auction reports the minimum", func(t *testing.T) {
		auction := f.create(t, withStanding(alice, 15000, 15000))
		_, err := f.bid(auction.ID, bob, 100, nil)
		require.ErrorIs(t, err, engine.ErrInvalidAmount)

		var priceErr *engine.PriceError
		require.True(t, errors.As(err, &priceErr))
		assert.Equal(t, int64(15500), priceErr.Price)
		assert.Contains(t, err.Error(), "15500")
		assert.NotContains(t, priceErr.Redacted(), "15500")
		assert.Equal(t, "invalid bid amount: amount is below the minimum acceptable bid", priceErr.Redacted())
	})

	t.Run("down auction reports the current price", func(t *testing.T) {
		auction := f.create(t, func(a *models.Auction) {
			a.Type = models.AuctionTypeDown
			a.BidIncrement = 0
		})
		_, err := f.bid(auction.ID, bob, 9000, nil)

		var priceErr *engine.PriceError
		require.True(t, errors.As(err, &priceErr))
		assert.Equal(t, auction.CurrentPrice, priceErr.Price)
		assert.NotContains(t, priceErr.Redacted(), "10000")
	})

	t.Run("other rejections carry no price", func(t *testing.T) {
		auction := f.create(t, nil)
		_, err := f.bid(auction.ID, auction.SellerID, 20000, nil)
		var priceErr *engine.PriceError
		assert.False(t, errors.As(err, &priceErr))
	})
}
