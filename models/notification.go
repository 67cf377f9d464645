package models

import (
	"time"

	"github.com/google/uuid"
)

// EventKind 通知的種類
type EventKind string

const (
	EventOutbid        EventKind = "outbid"
	EventAutoBidRaised EventKind = "auto_bid_raised"
	EventNewBid        EventKind = "new_bid"
	EventSold          EventKind = "sold"
	EventWon           EventKind = "won"
	EventExpired       EventKind = "expired"
	EventCancelled     EventKind = "cancelled"
)

// AuctionEvent 是拍賣狀態改變後送給使用者的內容
type AuctionEvent struct {
	AuctionID uuid.UUID
	BidID     *uuid.UUID
	Price     int64
	Status    AuctionStatus
	Time      time.Time
}

// Notification 代表已送達使用者的通知紀錄
type Notification struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;<-:create"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index;<-:create"`
	Kind      EventKind     `gorm:"type:varchar(32);not null;<-:create"`
	AuctionID uuid.UUID     `gorm:"type:uuid;not null;<-:create"`
	BidID     *uuid.UUID    `gorm:"type:uuid;<-:create"`
	Price     int64         `gorm:"not null;<-:create"`
	Status    AuctionStatus `gorm:"type:varchar(16);not null;<-:create"`
	EventTime time.Time     `gorm:"not null;<-:create"`
	ReadAt    *time.Time
	CreatedAt time.Time
}
