package models

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ErrCursorNotFound 表示 cursor 指向的拍賣不存在
var ErrCursorNotFound = errors.New("cursor auction not found")

// AuctionSortKey 列表排序的欄位
type AuctionSortKey string

const (
	SortByEndsAt       AuctionSortKey = "ends_at"
	SortByCurrentPrice AuctionSortKey = "current_price"
	SortByCreatedAt    AuctionSortKey = "created_at"
	SortByTitle        AuctionSortKey = "title"
)

// Valid 是否為支援的排序欄位
func (k AuctionSortKey) Valid() bool {
	switch k {
	case SortByEndsAt, SortByCurrentPrice, SortByCreatedAt, SortByTitle:
		return true
	}
	return false
}

// AuctionQuery 拍賣列表的查詢條件
// 以 (排序欄位, id) 做 cursor 分頁，LastID 是上一頁最後一筆的 ID
type AuctionQuery struct {
	Title    string
	Status   *AuctionStatus
	SellerID *uuid.UUID
	SortKey  AuctionSortKey
	Desc     bool
	LastID   *uuid.UUID
	Limit    int
}

// Match 拍賣是否符合過濾條件 (不含 cursor)
func (q AuctionQuery) Match(a Auction) bool {
	if q.Title != "" && !strings.Contains(a.Title, q.Title) {
		return false
	}
	if q.Status != nil && a.Status != *q.Status {
		return false
	}
	if q.SellerID != nil && a.SellerID != *q.SellerID {
		return false
	}
	return true
}

// Compare 依排序欄位比較兩場拍賣，欄位相同時以 id 決定順序
func (q AuctionQuery) Compare(a, b Auction) int {
	var c int
	switch q.SortKey {
	case SortByCurrentPrice:
		c = cmp.Compare(a.CurrentPrice, b.CurrentPrice)
	case SortByCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case SortByTitle:
		c = strings.Compare(a.Title, b.Title)
	default:
		c = a.EndsAt.Compare(b.EndsAt)
	}
	if q.Desc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// Apply 在記憶體中套用過濾、排序、cursor 與數量限制
func (q AuctionQuery) Apply(auctions []Auction) ([]Auction, error) {
	var cursor *Auction
	matched := make([]Auction, 0, len(auctions))
	for _, a := range auctions {
		if q.LastID != nil && a.ID == *q.LastID {
			cursor = &a
		}
		if q.Match(a) {
			matched = append(matched, a)
		}
	}
	slices.SortFunc(matched, q.Compare)

	if q.LastID != nil {
		if cursor == nil {
			return nil, ErrCursorNotFound
		}
		idx, _ := slices.BinarySearchFunc(matched, *cursor, q.Compare)
		// 跳過 cursor 本身
		if idx < len(matched) && matched[idx].ID == cursor.ID {
			idx++
		}
		matched = matched[idx:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}
