package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"q4auction/engine"
	"q4auction/models"
)

// Repository 以關聯式資料庫儲存拍賣、出價紀錄與通知
// 拍賣的寫入以 version 欄位做樂觀鎖，出價紀錄與狀態在同一個 transaction 中寫入
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	return &Repository{db: db}, nil
}

// Migrate 建立或更新資料表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Auction{}, &models.Bid{}, &models.Notification{})
}

// Create 新增一場拍賣
func (r *Repository) Create(ctx context.Context, auction models.Auction) error {
	const op = "database.Repository.Create"

	auction.Version = 0
	if result := r.db.WithContext(ctx).Create(&auction); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("[%s] auction %s already exists", op, auction.ID)
		}
		return fmt.Errorf("[%s] Fail to create auction, err=%w", op, result.Error)
	}
	return nil
}

// Get 讀取拍賣
func (r *Repository) Get(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	const op = "database.Repository.Get"

	var auction models.Auction
	if result := r.db.WithContext(ctx).First(&auction, "id = ?", auctionID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return models.Auction{}, fmt.Errorf("[%s] auction %s: %w", op, auctionID, engine.ErrNotFound)
		}
		return models.Auction{}, fmt.Errorf("[%s] Fail to find auction, err=%w", op, result.Error)
	}
	return auction, nil
}

// LoadForUpdate 讀取拍賣目前的狀態，寫入時由 Commit 比對版本
func (r *Repository) LoadForUpdate(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	return r.Get(ctx, auctionID)
}

// Commit 只在資料庫中的 version 仍等於預期版本時寫入新狀態，並一起寫入出價紀錄
func (r *Repository) Commit(ctx context.Context, transition engine.Transition) error {
	const op = "database.Repository.Commit"

	auction := transition.Auction
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Auction{}).
			Where("id = ? AND version = ?", auction.ID, transition.ExpectedVersion).
			Updates(map[string]any{
				"title":             auction.Title,
				"current_price":     auction.CurrentPrice,
				"status":            auction.Status,
				"highest_bidder_id": auction.HighestBidderID,
				"highest_bid_id":    auction.HighestBidID,
				"standing_max_bid":  auction.StandingMaxBid,
				"winning_bid_id":    auction.WinningBidID,
				"bid_count":         auction.BidCount,
				"version":           auction.Version,
				"closed_at":         auction.ClosedAt,
				"updated_at":        auction.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("[%s] Fail to update auction, err=%w", op, result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Auction{}).Where("id = ?", auction.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("[%s] Fail to check auction, err=%w", op, err)
			}
			if count == 0 {
				return fmt.Errorf("[%s] auction %s: %w", op, auction.ID, engine.ErrNotFound)
			}
			return fmt.Errorf("[%s] auction %s expected version %d: %w", op, auction.ID, transition.ExpectedVersion, engine.ErrVersionConflict)
		}

		if transition.Bid != nil {
			if err := tx.Create(transition.Bid).Error; err != nil {
				return fmt.Errorf("[%s] Fail to insert bid, err=%w", op, err)
			}
		}
		return nil
	})
}

// Append 寫入一筆不改變拍賣狀態的出價紀錄
func (r *Repository) Append(ctx context.Context, bid models.Bid) error {
	const op = "database.Repository.Append"

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Auction{}).Where("id = ?", bid.AuctionID).Count(&count).Error; err != nil {
			return fmt.Errorf("[%s] Fail to check auction, err=%w", op, err)
		}
		if count == 0 {
			return fmt.Errorf("[%s] auction %s: %w", op, bid.AuctionID, engine.ErrNotFound)
		}
		if err := tx.Create(&bid).Error; err != nil {
			return fmt.Errorf("[%s] Fail to insert bid, err=%w", op, err)
		}
		return nil
	})
}

// ListBids 回傳拍賣的所有出價紀錄，最新的在前
func (r *Repository) ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	const op = "database.Repository.ListBids"

	if _, err := r.Get(ctx, auctionID); err != nil {
		return nil, err
	}
	var bids []models.Bid
	if result := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "created_at"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Find(&bids); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to find bids, err=%w", op, result.Error)
	}
	return bids, nil
}

// ListOverdue 回傳已經到期但仍是 Active 的拍賣 ID，最早到期的在前
func (r *Repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const op = "database.Repository.ListOverdue"

	query := r.db.WithContext(ctx).Model(&models.Auction{}).
		Where("status = ? AND ends_at <= ?", models.AuctionStatusActive, now).
		Order("ends_at")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var ids []uuid.UUID
	if result := query.Pluck("id", &ids); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to list overdue auctions, err=%w", op, result.Error)
	}
	return ids, nil
}

// ListAuctions 依查詢條件列出拍賣
func (r *Repository) ListAuctions(ctx context.Context, q models.AuctionQuery) ([]models.Auction, error) {
	const op = "database.Repository.ListAuctions"

	sortKey := q.SortKey
	if !sortKey.Valid() {
		sortKey = models.SortByEndsAt
	}
	column := string(sortKey)

	query := r.db.WithContext(ctx).Model(&models.Auction{})
	if q.Title != "" {
		query = query.Where("title LIKE ?", "%"+q.Title+"%")
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.SellerID != nil {
		query = query.Where("seller_id = ?", *q.SellerID)
	}
	query = query.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: column}, Desc: q.Desc},
		{Column: clause.Column{Name: "id"}, Desc: false},
	}})

	//  - cursor
	// 排序欄位值相同時以 id 決定順序，所以 cursor 需要同時比對兩個欄位
	if q.LastID != nil {
		var cursor models.Auction
		if result := r.db.WithContext(ctx).First(&cursor, "id = ?", *q.LastID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("[%s] %w", op, models.ErrCursorNotFound)
			}
			return nil, fmt.Errorf("[%s] Fail to find last item, err=%w", op, result.Error)
		}
		value := cursorValue(cursor, sortKey)
		cmp := ">"
		if q.Desc {
			cmp = "<"
		}
		query = query.Where(r.db.
			Where(column+" "+cmp+" ?", value).
			Or(column+" = ? AND id > ?", value, cursor.ID))
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var auctions []models.Auction
	if result := query.Find(&auctions); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to list auctions, err=%w", op, result.Error)
	}
	return auctions, nil
}

func cursorValue(a models.Auction, key models.AuctionSortKey) any {
	switch key {
	case models.SortByCurrentPrice:
		return a.CurrentPrice
	case models.SortByCreatedAt:
		return a.CreatedAt
	case models.SortByTitle:
		return a.Title
	default:
		return a.EndsAt
	}
}
