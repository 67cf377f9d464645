package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"q4auction/engine"
	"q4auction/models"
)

// Repository 以 Redis 儲存拍賣狀態與出價紀錄
//   - <prefix>auction:<id>       hash，欄位 version 與 data
//   - <prefix>auction:<id>:bids  stream，出價紀錄
//   - <prefix>auctions:active    sorted set，進行中的拍賣，score 為結束時間
type Repository struct {
	client *redis.Client
	prefix string
}

type RepositoryOption func(*Repository)

// WithRepositoryPrefix 設定 key 前綴
func WithRepositoryPrefix(prefix string) RepositoryOption {
	return func(r *Repository) {
		r.prefix = prefix
	}
}

func NewRepository(client *redis.Client, opts ...RepositoryOption) (*Repository, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	r := &Repository{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Repository) auctionKey(id uuid.UUID) string {
	return r.prefix + "auction:" + id.String()
}

func (r *Repository) bidsKey(id uuid.UUID) string {
	return r.prefix + "auction:" + id.String() + ":bids"
}

func (r *Repository) activeKey() string {
	return r.prefix + "auctions:active"
}

// Create 新增一場拍賣
func (r *Repository) Create(ctx context.Context, auction models.Auction) error {
	const op = "redis.Repository.Create"

	auction.Version = 0
	data, err := encodePayload(auction)
	if err != nil {
		return fmt.Errorf("[%s] Fail to encode auction, err=%w", op, err)
	}
	result, err := createAuctionScript.Run(ctx, r.client,
		[]string{r.auctionKey(auction.ID), r.activeKey()},
		data, auction.ID.String(), auction.EndsAt.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("[%s] Fail to run create script, err=%w", op, err)
	}
	if result == 0 {
		return fmt.Errorf("[%s] auction %s already exists", op, auction.ID)
	}
	return nil
}

// Get 讀取拍賣
func (r *Repository) Get(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	const op = "redis.Repository.Get"

	fields, err := r.client.HGetAll(ctx, r.auctionKey(auctionID)).Result()
	if err != nil {
		return models.Auction{}, fmt.Errorf("[%s] Fail to load auction, err=%w", op, err)
	}
	if len(fields) == 0 {
		return models.Auction{}, fmt.Errorf("[%s] auction %s: %w", op, auctionID, engine.ErrNotFound)
	}

	auction, err := decodePayload[models.Auction](fields["data"])
	if err != nil {
		return models.Auction{}, fmt.Errorf("[%s] Fail to decode auction, err=%w", op, err)
	}
	// hash 上的 version 才是比對用的版本
	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return models.Auction{}, fmt.Errorf("[%s] Fail to parse version, err=%w", op, err)
	}
	auction.Version = version
	return auction, nil
}

// LoadForUpdate 讀取拍賣目前的狀態，寫入時由 commit 腳本比對版本
func (r *Repository) LoadForUpdate(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	return r.Get(ctx, auctionID)
}

// Commit 以單一腳本原子性地比對版本，寫入新狀態與出價紀錄
func (r *Repository) Commit(ctx context.Context, transition engine.Transition) error {
	const op = "redis.Repository.Commit"

	auction := transition.Auction
	data, err := encodePayload(auction)
	if err != nil {
		return fmt.Errorf("[%s] Fail to encode auction, err=%w", op, err)
	}
	bid := ""
	if transition.Bid != nil {
		if bid, err = encodePayload(*transition.Bid); err != nil {
			return fmt.Errorf("[%s] Fail to encode bid, err=%w", op, err)
		}
	}

	result, err := commitAuctionScript.Run(ctx, r.client,
		[]string{r.auctionKey(auction.ID), r.bidsKey(auction.ID), r.activeKey()},
		transition.ExpectedVersion, data, bid, auction.ID.String(), lo.Ternary(auction.Status.Terminal(), "1", "0"),
	).Int()
	if err != nil {
		return fmt.Errorf("[%s] Fail to run commit script, err=%w", op, err)
	}
	switch result {
	case -1:
		return fmt.Errorf("[%s] auction %s: %w", op, auction.ID, engine.ErrNotFound)
	case 0:
		return fmt.Errorf("[%s] auction %s expected version %d: %w", op, auction.ID, transition.ExpectedVersion, engine.ErrVersionConflict)
	}
	return nil
}

// Append 寫入一筆不改變拍賣狀態的出價紀錄
func (r *Repository) Append(ctx context.Context, bid models.Bid) error {
	const op = "redis.Repository.Append"

	data, err := encodePayload(bid)
	if err != nil {
		return fmt.Errorf("[%s] Fail to encode bid, err=%w", op, err)
	}
	result, err := appendBidScript.Run(ctx, r.client,
		[]string{r.auctionKey(bid.AuctionID), r.bidsKey(bid.AuctionID)},
		data,
	).Int()
	if err != nil {
		return fmt.Errorf("[%s] Fail to run append script, err=%w", op, err)
	}
	if result == -1 {
		return fmt.Errorf("[%s] auction %s: %w", op, bid.AuctionID, engine.ErrNotFound)
	}
	return nil
}

// ListBids 回傳拍賣的所有出價紀錄，最新的在前
func (r *Repository) ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	const op = "redis.Repository.ListBids"

	exists, err := r.client.Exists(ctx, r.auctionKey(auctionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to check auction, err=%w", op, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("[%s] auction %s: %w", op, auctionID, engine.ErrNotFound)
	}

	messages, err := r.client.XRevRange(ctx, r.bidsKey(auctionID), "+", "-").Result()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to read bids, err=%w", op, err)
	}
	bids := make([]models.Bid, 0, len(messages))
	for _, message := range messages {
		bid, err := DecodeMessage[models.Bid](message.Values)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to decode bid %s, err=%w", op, message.ID, err)
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// ListOverdue 回傳已經到期但仍是 Active 的拍賣 ID，最早到期的在前
func (r *Repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const op = "redis.Repository.ListOverdue"

	// ends_at == now 也算到期
	members, err := r.client.ZRangeByScore(ctx, r.activeKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to list overdue auctions, err=%w", op, err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to parse auction id %q, err=%w", op, member, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListAuctions 依查詢條件列出拍賣
// Redis 只索引進行中的拍賣，查詢終止狀態時回傳空列表
func (r *Repository) ListAuctions(ctx context.Context, query models.AuctionQuery) ([]models.Auction, error) {
	const op = "redis.Repository.ListAuctions"

	if query.Status != nil && *query.Status != models.AuctionStatusActive {
		return []models.Auction{}, nil
	}
	members, err := r.client.ZRange(ctx, r.activeKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to list active auctions, err=%w", op, err)
	}

	auctions := make([]models.Auction, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to parse auction id %q, err=%w", op, member, err)
		}
		auction, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, engine.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("[%s] Fail to load auction, err=%w", op, err)
		}
		auctions = append(auctions, auction)
	}
	return query.Apply(auctions)
}
