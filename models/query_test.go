package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryFixture() []Auction {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seller := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	return []Auction{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), SellerID: seller, Title: "red bicycle", CurrentPrice: 300, Status: AuctionStatusActive, EndsAt: base.Add(3 * time.Hour)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), SellerID: uuid.New(), Title: "blue bicycle", CurrentPrice: 100, Status: AuctionStatusActive, EndsAt: base.Add(1 * time.Hour)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), SellerID: seller, Title: "desk lamp", CurrentPrice: 100, Status: AuctionStatusSold, EndsAt: base.Add(2 * time.Hour)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), SellerID: uuid.New(), Title: "green bicycle", CurrentPrice: 200, Status: AuctionStatusActive, EndsAt: base.Add(4 * time.Hour)},
	}
}

func ids(auctions []Auction) []string {
	return lo.Map(auctions, func(a Auction, _ int) string {
		return a.ID.String()[len(a.ID.String())-1:]
	})
}

func TestAuctionQuery_Apply(t *testing.T) {
	auctions := newQueryFixture()

	t.Run("default sort by ends_at", func(t *testing.T) {
		got, err := AuctionQuery{}.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "3", "1", "4"}, ids(got))
	})

	t.Run("filters", func(t *testing.T) {
		got, err := AuctionQuery{Title: "bicycle", Status: lo.ToPtr(AuctionStatusActive)}.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1", "4"}, ids(got))

		got, err = AuctionQuery{SellerID: lo.ToPtr(auctions[0].SellerID)}.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1"}, ids(got))
	})

	t.Run("price ties break by id", func(t *testing.T) {
		got, err := AuctionQuery{SortKey: SortByCurrentPrice}.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "3", "4", "1"}, ids(got))

		got, err = AuctionQuery{SortKey: SortByCurrentPrice, Desc: true}.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "4", "2", "3"}, ids(got))
	})

	t.Run("cursor pages", func(t *testing.T) {
		q := AuctionQuery{SortKey: SortByCurrentPrice, Limit: 2}
		page, err := q.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "3"}, ids(page))

		q.LastID = lo.ToPtr(page[len(page)-1].ID)
		page, err = q.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "1"}, ids(page))

		q.LastID = lo.ToPtr(page[len(page)-1].ID)
		page, err = q.Apply(auctions)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("cursor outside the filter still positions the page", func(t *testing.T) {
		got, err := AuctionQuery{Status: lo.ToPtr(AuctionStatusActive), LastID: lo.ToPtr(auctions[2].ID)}.Apply(auctions)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "4"}, ids(got))
	})

	t.Run("unknown cursor", func(t *testing.T) {
		_, err := AuctionQuery{LastID: lo.ToPtr(uuid.New())}.Apply(auctions)
		assert.ErrorIs(t, err, ErrCursorNotFound)
	})
}

func TestAuctionSortKey_Valid(t *testing.T) {
	assert.True(t, SortByTitle.Valid())
	assert.True(t, SortByEndsAt.Valid())
	assert.False(t, AuctionSortKey("starting_price").Valid())
}

func TestAuction_OpenAndPriceHidden(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seller := uuid.New()
	a := Auction{SellerID: seller, Status: AuctionStatusActive, Visibility: BidVisibilityPrivate, EndsAt: now.Add(time.Minute)}

	assert.True(t, a.Open(now))
	assert.False(t, a.Open(a.EndsAt))
	assert.True(t, a.PriceHiddenFor(uuid.New()))
	assert.True(t, a.PriceHiddenFor(uuid.Nil))
	assert.False(t, a.PriceHiddenFor(seller))

	a.Status = AuctionStatusSold
	assert.False(t, a.Open(now))
	assert.False(t, a.PriceHiddenFor(uuid.New()))
	assert.True(t, a.Status.Terminal())
}
