package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"q4auction/models"
)

// OverdueLister 列出已經到期但仍是 Active 的拍賣
type OverdueLister interface {
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

// Settler 結算到期的拍賣
type Settler interface {
	Settle(ctx context.Context, auctionID uuid.UUID) (models.Auction, error)
}

// DefaultSweeperInterval 是到期結算排程的預設間隔
const DefaultSweeperInterval = time.Second

type sweeperOptions struct {
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

type SweeperOption func(*sweeperOptions)

// WithSweeperLogger 設置日誌記錄器
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(o *sweeperOptions) {
		o.logger = logger
	}
}

// WithSweeperInterval 設置掃描的間隔
func WithSweeperInterval(d time.Duration) SweeperOption {
	return func(o *sweeperOptions) {
		o.interval = d
	}
}

// WithSweeperBatchSize 設置每次掃描最多結算的拍賣數量
func WithSweeperBatchSize(n int) SweeperOption {
	return func(o *sweeperOptions) {
		o.batchSize = n
	}
}

// WithSweeperClock 設置時間來源 (主要用於測試)
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(o *sweeperOptions) {
		o.now = now
	}
}

// Sweeper 定期結算沒有人再讀取或出價的到期拍賣
// 結算本身經過 engine 的序列化區段，與出價和讀取時的結算同時發生也不會重複
type Sweeper struct {
	lister     OverdueLister
	settler    Settler
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
	options    sweeperOptions
}

func NewSweeper(lister OverdueLister, settler Settler, opts ...SweeperOption) (*Sweeper, error) {
	if lister == nil {
		return nil, errors.New("lister cannot be nil")
	}
	if settler == nil {
		return nil, errors.New("settler cannot be nil")
	}

	// 默認選項
	options := sweeperOptions{
		logger:    slog.Default(),
		interval:  DefaultSweeperInterval,
		batchSize: 100,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.interval <= 0 {
		return nil, fmt.Errorf("sweeper interval must be positive, got %s", options.interval)
	}

	return &Sweeper{
		lister:  lister,
		settler: settler,
		logger:  options.logger.With(slog.String("caller", "Sweeper")),
		options: options,
	}, nil
}

// Start 啟動背景掃描，重複呼叫不會有作用
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFunc != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFunc = cancel
	s.logger.Info("Start expiry sweeper", slog.Duration("interval", s.options.interval))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.logger.Info("Expiry sweeper stopped")

		ticker := time.NewTicker(s.options.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
	return nil
}

// Sweep 結算一批到期的拍賣，回傳成功結算的數量
func (s *Sweeper) Sweep(ctx context.Context) int {
	ids, err := s.lister.ListOverdue(ctx, s.options.now(), s.options.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Fail to list overdue auctions", slog.Any("error", err))
		}
		return 0
	}
	settled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		auction, err := s.settler.Settle(ctx, id)
		if err != nil {
			// 被出價或讀取搶先結算時會遇到版本衝突，下一輪會再確認
			s.logger.Warn("Fail to settle overdue auction", slog.String("auctionID", id.String()), slog.Any("error", err))
			continue
		}
		if auction.Status.Terminal() {
			settled++
		}
	}
	if settled > 0 {
		s.logger.Debug("Overdue auctions settled", slog.Int("count", settled))
	}
	return settled
}

// Close 停止掃描並等待進行中的結算完成
func (s *Sweeper) Close() {
	s.mu.Lock()
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}
