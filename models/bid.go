package models

import (
	"time"

	"github.com/google/uuid"
)

// BidOutcome 出價被處理後的結果，寫入時決定，之後不再修改
type BidOutcome string

const (
	BidOutcomeAccepted   BidOutcome = "accepted"
	BidOutcomeRejected   BidOutcome = "rejected"
	BidOutcomeAutoOutbid BidOutcome = "auto_outbid"
)

// Bid 代表出價紀錄 (只新增不修改的 ledger)
// 每次出價嘗試都會留下一筆，包含被拒絕的出價
type Bid struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;<-:create"`
	AuctionID uuid.UUID  `gorm:"type:uuid;not null;index;<-:create"`
	BidderID  uuid.UUID  `gorm:"type:uuid;not null;index;<-:create"`
	Amount    int64      `gorm:"not null;<-:create"`
	MaxBid    *int64     `gorm:"<-:create"`
	Outcome   BidOutcome `gorm:"type:varchar(16);not null;<-:create"`
	Reason    string     `gorm:"type:varchar(64);not null;default:'';<-:create"`
	CreatedAt time.Time  `gorm:"not null;<-:create"`
}
