package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"q4auction/models"
)

// Result 是出價處理後回傳給呼叫端的結果
type Result struct {
	Accepted     bool
	Outcome      models.BidOutcome
	BidID        uuid.UUID
	CurrentPrice int64
	Status       models.AuctionStatus
	Visibility   models.BidVisibility
	InstantWin   bool
}

type engineOptions struct {
	locker   Locker
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

type Option func(*engineOptions)

// WithLocker 設置單一拍賣的互斥鎖，未設置時只依靠 commit 的版本檢查
func WithLocker(locker Locker) Option {
	return func(o *engineOptions) {
		o.locker = locker
	}
}

// WithNotifier 設置通知發送者
func WithNotifier(notifier Notifier) Option {
	return func(o *engineOptions) {
		o.notifier = notifier
	}
}

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithClock 設置時間來源 (主要用於測試)
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		o.now = now
	}
}

// WithIDGenerator 設置出價 ID 的產生方式 (主要用於測試)
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(o *engineOptions) {
		o.newID = newID
	}
}

// Engine 是出價是否被接受的唯一判斷者
// 所有對單一拍賣可變欄位的修改都經過 apply: 取鎖 -> 讀取 -> 計算 -> 條件寫入 -> 通知
type Engine struct {
	repo    Repository
	ledger  Ledger
	logger  *slog.Logger
	options engineOptions
}

func New(repo Repository, ledger Ledger, opts ...Option) (*Engine, error) {
	if repo == nil {
		return nil, errors.New("repository cannot be nil")
	}
	if ledger == nil {
		return nil, errors.New("ledger cannot be nil")
	}

	// 默認選項
	options := engineOptions{
		notifier: nopNotifier{},
		logger:   slog.Default(),
		now:      time.Now,
		newID: func() uuid.UUID {
			return uuid.Must(uuid.NewV7())
		},
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	return &Engine{
		repo:    repo,
		ledger:  ledger,
		logger:  options.logger.With(slog.String("caller", "Engine")),
		options: options,
	}, nil
}

// outcome 是在鎖內計算出來的結果
//   - next 不為 nil 時會與 bid 一起 commit
//   - next 為 nil 而 bid 不為 nil 時，bid 是被拒絕的出價，只寫入 ledger
//   - reject 是業務規則的拒絕
type outcome struct {
	next    *models.Auction
	bid     *models.Bid
	notices []notice
	reject  error
}

// apply 在單一拍賣的序列化區段內執行 fn，回傳最後的拍賣狀態
func (e *Engine) apply(ctx context.Context, op string, auctionID uuid.UUID, fn func(current models.Auction, now time.Time) outcome) (models.Auction, error) {
	lockCtx, unlock, err := e.lock(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	current, err := e.repo.LoadForUpdate(lockCtx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("%s: failed to load auction %s: %w", op, auctionID, err)
	}

	now := e.options.now()
	out := fn(current, now)

	if out.next == nil {
		if out.bid != nil {
			// 拒絕的出價寫入失敗不影響回傳的拒絕結果
			if err := e.ledger.Append(lockCtx, *out.bid); err != nil {
				e.logger.Warn("Fail to append rejected bid", slog.String("auctionID", auctionID.String()), slog.Any("error", err))
			}
		}
		return current, out.reject
	}

	next := *out.next
	next.Version = current.Version + 1
	next.UpdatedAt = now
	if err := e.commit(lockCtx, current.Version, next, out.bid); err != nil {
		if out.reject != nil {
			// 只是順便結算到期的拍賣，結算失敗時仍然回傳原本的拒絕
			e.logger.Warn("Fail to settle due auction", slog.String("auctionID", auctionID.String()), slog.Any("error", err))
			return current, out.reject
		}
		return models.Auction{}, fmt.Errorf("%s: %w", op, err)
	}
	e.dispatch(ctx, next, out.bid, out.notices, now)
	return next, out.reject
}

func (e *Engine) lock(ctx context.Context, auctionID uuid.UUID) (context.Context, func(), error) {
	if e.options.locker == nil {
		return ctx, func() {}, nil
	}
	return e.options.locker.Lock(ctx, auctionID)
}

func (e *Engine) commit(ctx context.Context, expected int64, next models.Auction, bid *models.Bid) error {
	// 逾時或取消的請求不能產生任何效果
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("request ended before commit: %w", err)
	}
	err := e.repo.Commit(ctx, Transition{
		ExpectedVersion: expected,
		Auction:         next,
		Bid:             bid,
	})
	if err != nil {
		return fmt.Errorf("failed to commit auction %s at version %d: %w", next.ID, expected, err)
	}
	return nil
}

// dispatch 在 commit 成功後送出通知，不等待也不回報結果
func (e *Engine) dispatch(ctx context.Context, next models.Auction, bid *models.Bid, notices []notice, now time.Time) {
	if len(notices) == 0 {
		return
	}
	event := models.AuctionEvent{
		AuctionID: next.ID,
		Price:     next.CurrentPrice,
		Status:    next.Status,
		Time:      now,
	}
	if bid != nil {
		event.BidID = lo.ToPtr(bid.ID)
	}
	notifyCtx := context.WithoutCancel(ctx)
	for _, n := range notices {
		e.options.notifier.Notify(notifyCtx, n.userID, n.kind, event)
	}
}

// SubmitBid 處理一次出價
// 業務規則的拒絕以 ErrNotFound、ErrAuctionClosed、ErrSelfBidForbidden、ErrInvalidAmount 回傳，
// 併發競爭以 ErrVersionConflict、ErrLockTimeout 回傳，不會自動重試
func (e *Engine) SubmitBid(ctx context.Context, req BidRequest) (Result, error) {
	const op = "engine.SubmitBid"
	var result Result
	final, err := e.apply(ctx, op, req.AuctionID, func(current models.Auction, now time.Time) outcome {
		bidID := e.options.newID()
		d, reject := decideBid(current, req, bidID, now)
		if reject == nil {
			result = Result{
				Accepted:   d.bid.Outcome == models.BidOutcomeAccepted,
				Outcome:    d.bid.Outcome,
				BidID:      d.bid.ID,
				InstantWin: d.instant,
			}
			return outcome{next: &d.next, bid: &d.bid, notices: d.notices}
		}

		result = Result{Outcome: models.BidOutcomeRejected, BidID: bidID}
		rejected := &models.Bid{
			ID:        bidID,
			AuctionID: current.ID,
			BidderID:  req.BidderID,
			Amount:    req.Amount,
			MaxBid:    req.MaxBid,
			Outcome:   models.BidOutcomeRejected,
			Reason:    rejectReason(reject),
			CreatedAt: now,
		}
		// 到期但仍是 Active 的拍賣，先結算再拒絕
		if settled, notices, ok := settleDue(current, now); ok {
			return outcome{next: &settled, bid: rejected, notices: notices, reject: reject}
		}
		return outcome{bid: rejected, reject: reject}
	})
	if err != nil && errors.Is(err, ErrNotFound) {
		return Result{Outcome: models.BidOutcomeRejected}, err
	}
	if err != nil && result.Outcome != models.BidOutcomeRejected {
		return Result{}, err
	}
	result.CurrentPrice = final.CurrentPrice
	result.Status = final.Status
	result.Visibility = final.Visibility
	if err != nil {
		e.logger.Debug("Bid rejected", slog.String("auctionID", req.AuctionID.String()), slog.String("bidder", req.BidderID.String()), slog.Any("reason", err))
		return result, err
	}
	e.logger.Info("Bid processed",
		slog.String("auctionID", req.AuctionID.String()),
		slog.String("bidder", req.BidderID.String()),
		slog.Int64("amount", req.Amount),
		slog.String("outcome", string(result.Outcome)),
		slog.Int64("price", result.CurrentPrice),
		slog.String("status", string(result.Status)),
	)
	return result, nil
}

// Settle 結算已經到期的拍賣，回傳結算後的狀態；未到期或已終止的拍賣維持原樣
func (e *Engine) Settle(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	const op = "engine.Settle"
	return e.apply(ctx, op, auctionID, func(current models.Auction, now time.Time) outcome {
		settled, notices, ok := settleDue(current, now)
		if !ok {
			return outcome{}
		}
		e.logger.Info("Settling due auction", slog.String("auctionID", auctionID.String()), slog.String("status", string(settled.Status)))
		return outcome{next: &settled, notices: notices}
	})
}

// Cancel 由賣家取消進行中的拍賣
func (e *Engine) Cancel(ctx context.Context, auctionID, sellerID uuid.UUID) (models.Auction, error) {
	const op = "engine.Cancel"
	return e.apply(ctx, op, auctionID, func(current models.Auction, now time.Time) outcome {
		if settled, notices, ok := settleDue(current, now); ok {
			return outcome{next: &settled, notices: notices, reject: fmt.Errorf("%w: auction ended at %s", ErrAuctionClosed, current.EndsAt.Format(time.RFC3339))}
		}
		next, notices, err := decideCancel(current, sellerID, now)
		if err != nil {
			return outcome{reject: err}
		}
		return outcome{next: &next, notices: notices}
	})
}

// Reprice 調降 Down 拍賣的價格，供賣家或外部的降價排程使用
func (e *Engine) Reprice(ctx context.Context, auctionID, sellerID uuid.UUID, price int64) (models.Auction, error) {
	const op = "engine.Reprice"
	return e.apply(ctx, op, auctionID, func(current models.Auction, now time.Time) outcome {
		if settled, notices, ok := settleDue(current, now); ok {
			return outcome{next: &settled, notices: notices, reject: fmt.Errorf("%w: auction ended at %s", ErrAuctionClosed, current.EndsAt.Format(time.RFC3339))}
		}
		next, err := decideReprice(current, sellerID, price, now)
		if err != nil {
			return outcome{reject: err}
		}
		return outcome{next: &next}
	})
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, uuid.UUID, models.EventKind, models.AuctionEvent) {}
