package models

import (
	"time"

	"github.com/google/uuid"
)

// AuctionType 拍賣的計價方式
type AuctionType string

const (
	// AuctionTypeUp 價格由出價往上推，最高出價者得標
	AuctionTypeUp AuctionType = "up"
	// AuctionTypeDown 價格由賣家往下調，第一個接受目前價格的人得標
	AuctionTypeDown AuctionType = "down"
)

// AuctionStatus 拍賣的狀態，除了 Active 以外都是終止狀態
type AuctionStatus string

const (
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusSold      AuctionStatus = "sold"
	AuctionStatusExpired   AuctionStatus = "expired"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

// Terminal 是否為終止狀態
func (s AuctionStatus) Terminal() bool {
	return s == AuctionStatusSold || s == AuctionStatusExpired || s == AuctionStatusCancelled
}

// BidVisibility 控制拍賣進行中非賣家是否能看到目前價格
type BidVisibility string

const (
	BidVisibilityPublic  BidVisibility = "public"
	BidVisibilityPrivate BidVisibility = "private"
)

// Auction 代表一場拍賣
// 價格、狀態、最高出價者等可變欄位只能透過 engine 在單一拍賣的序列化區段內修改，
// Version 用於 commit 時的樂觀鎖檢查。
type Auction struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	SellerID      uuid.UUID     `gorm:"type:uuid;not null;index;<-:create"`
	Title         string        `gorm:"type:varchar(255);not null"`
	Description   string        `gorm:"type:text;not null;default:''"`
	Type          AuctionType   `gorm:"type:varchar(16);not null;<-:create"`
	StartingPrice int64         `gorm:"not null;<-:create"`
	CurrentPrice  int64         `gorm:"not null"`
	BidIncrement  int64         `gorm:"not null;default:0;<-:create"`
	InstantPrice  *int64        `gorm:"<-:create"`
	Visibility    BidVisibility `gorm:"type:varchar(16);not null;default:'public';<-:create"`
	Status        AuctionStatus `gorm:"type:varchar(16);not null;index:idx_auction_status_ends_at,priority:1"`
	EndsAt        time.Time     `gorm:"not null;index:idx_auction_status_ends_at,priority:2"`

	HighestBidderID *uuid.UUID `gorm:"type:uuid"`
	HighestBidID    *uuid.UUID `gorm:"type:uuid"`
	StandingMaxBid  *int64
	WinningBidID    *uuid.UUID `gorm:"type:uuid"`
	BidCount        int64      `gorm:"not null;default:0"`
	Version         int64      `gorm:"not null;default:0"`
	ClosedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open 拍賣在 now 時仍然可以出價
func (a Auction) Open(now time.Time) bool {
	return a.Status == AuctionStatusActive && now.Before(a.EndsAt)
}

// PriceHiddenFor 私人出價的拍賣在進行中只有賣家能看到目前價格
func (a Auction) PriceHiddenFor(viewerID uuid.UUID) bool {
	return a.Visibility == BidVisibilityPrivate &&
		a.Status == AuctionStatusActive &&
		viewerID != a.SellerID
}
