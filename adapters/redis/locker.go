package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"q4auction/engine"
)

// AuctionLocker 以 Redis 分散式鎖序列化同一場拍賣的寫入，讓多個實例可以同時服務
type AuctionLocker struct {
	rs        *redsync.Redsync
	keyPrefix string
	logger    *slog.Logger
	mutexOpts []AutoRenewMutexOption
}

type auctionLockerOptions struct {
	keyPrefix string
	logger    *slog.Logger
	mutexOpts []AutoRenewMutexOption
}

type AuctionLockerOption func(*auctionLockerOptions)

// WithAuctionLockerKeyPrefix 設置鎖的 key 前綴
func WithAuctionLockerKeyPrefix(prefix string) AuctionLockerOption {
	return func(o *auctionLockerOptions) {
		o.keyPrefix = prefix
	}
}

// WithAuctionLockerLogger 設置日誌記錄器
func WithAuctionLockerLogger(logger *slog.Logger) AuctionLockerOption {
	return func(o *auctionLockerOptions) {
		o.logger = logger
	}
}

// WithAuctionLockerMutexOptions 設置每個鎖使用的 AutoRenewMutex 選項
func WithAuctionLockerMutexOptions(opts ...AutoRenewMutexOption) AuctionLockerOption {
	return func(o *auctionLockerOptions) {
		o.mutexOpts = append(o.mutexOpts, opts...)
	}
}

func NewAuctionLocker(client *redis.Client, opts ...AuctionLockerOption) (*AuctionLocker, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	options := auctionLockerOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &AuctionLocker{
		rs:        redsync.New(goredis.NewPool(client)),
		keyPrefix: options.keyPrefix,
		logger:    options.logger.With(slog.String("caller", "AuctionLocker")),
		mutexOpts: options.mutexOpts,
	}, nil
}

// LockKey 回傳拍賣鎖在 Redis 中的 key
func (l *AuctionLocker) LockKey(auctionID uuid.UUID) string {
	return fmt.Sprintf("%sauction:%s:lock", l.keyPrefix, auctionID)
}

// Lock 取得拍賣的鎖，回傳的 context 在釋放鎖或續期失敗時取消
func (l *AuctionLocker) Lock(ctx context.Context, auctionID uuid.UUID) (context.Context, func(), error) {
	mutex := NewAutoRenewMutex(l.rs, l.LockKey(auctionID), l.mutexOpts...)
	lockCtx, err := mutex.Lock(ctx)
	if err != nil {
		if errors.Is(err, ErrLockWaitTimeout) {
			return nil, nil, fmt.Errorf("auction %s: %w", auctionID, engine.ErrLockTimeout)
		}
		return nil, nil, fmt.Errorf("auction %s: %w", auctionID, err)
	}

	var once sync.Once
	return lockCtx, func() {
		once.Do(func() {
			if _, err := mutex.Unlock(); err != nil {
				// 鎖已經過期時寫入早就被 context 擋下，只需要記錄
				l.logger.Warn("Fail to release auction lock",
					slog.String("auctionID", auctionID.String()),
					slog.Any("error", err),
				)
			}
		})
	}, nil
}
