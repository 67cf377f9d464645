//go:generate mockgen -package=engine -destination=mock.go -source=interfaces.go

package engine

import (
	"context"

	"github.com/google/uuid"

	"q4auction/models"
)

// Transition 描述一次要寫入的狀態轉換
//   - ExpectedVersion 是讀取時的版本，儲存層必須確認目前版本仍相同才能寫入
//   - Auction 是新狀態，Version 已經是 ExpectedVersion+1
//   - Bid 是要一起寫入的出價紀錄 (可為 nil)
type Transition struct {
	ExpectedVersion int64
	Auction         models.Auction
	Bid             *models.Bid
}

// Repository 定義拍賣資料的讀取與條件寫入
type Repository interface {
	// LoadForUpdate 讀取拍賣目前的狀態，不存在時回傳包裝 ErrNotFound 的錯誤
	LoadForUpdate(ctx context.Context, auctionID uuid.UUID) (models.Auction, error)
	// Commit 原子性地寫入新狀態與出價紀錄，版本不符時回傳包裝 ErrVersionConflict 的錯誤
	Commit(ctx context.Context, transition Transition) error
}

// Ledger 定義出價紀錄的寫入，只新增不修改
type Ledger interface {
	Append(ctx context.Context, bid models.Bid) error
}

// Notifier 定義通知的發送，發送失敗不影響已經 commit 的狀態
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind models.EventKind, event models.AuctionEvent)
}

// Locker 定義單一拍賣的互斥鎖
// Lock 成功時回傳持有鎖期間有效的 context 與釋放函數，等不到鎖時回傳包裝 ErrLockTimeout 的錯誤
type Locker interface {
	Lock(ctx context.Context, auctionID uuid.UUID) (context.Context, func(), error)
}
