package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// ErrLockWaitTimeout 表示在等待時間內沒有取得鎖
var ErrLockWaitTimeout = errors.New("lock wait timeout")

type AutoRenewMutex struct {
	mutex    *redsync.Mutex
	cancel   context.CancelFunc
	renewing bool
	// until 是最後一次取得或續期成功的到期時間，由 mu 保護
	// redsync.Mutex 的 Until 會在續期時被改寫，不能在其他 goroutine 直接讀
	until   time.Time
	mu      sync.Mutex
	wg      sync.WaitGroup
	options autoRenewMutexOptions
}

type autoRenewMutexOptions struct {
	renewInterval time.Duration
	retryDelay    time.Duration
	expiry        time.Duration
	waitTimeout   time.Duration
	skipLockError bool
}

type AutoRenewMutexOption func(*autoRenewMutexOptions)

// WithAutoRenewMutexRenewInterval 設置自動續期間隔
func WithAutoRenewMutexRenewInterval(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.renewInterval = d
	}
}

// WithAutoRenewMutexRetryDelay 設置重試延遲
func WithAutoRenewMutexRetryDelay(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.retryDelay = d
	}
}

// WithAutoRenewMutexExpiry 設置鎖過期時間
func WithAutoRenewMutexExpiry(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.expiry = d
	}
}

// WithAutoRenewMutexWaitTimeout 設置等待鎖的最長時間，0 表示只受 context 限制
func WithAutoRenewMutexWaitTimeout(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.waitTimeout = d
	}
}

// WithAutoRenewMutexSkipLockError 設置是否忽略 Redis 通訊錯誤並繼續重試
func WithAutoRenewMutexSkipLockError(skip bool) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.skipLockError = skip
	}
}

// NewAutoRenewMutex 創建一個帶自動續期功能的互斥鎖
func NewAutoRenewMutex(rs *redsync.Redsync, key string, opts ...AutoRenewMutexOption) IAutoRenewMutex {
	// 默認選項
	options := autoRenewMutexOptions{
		expiry:     8 * time.Second,
		retryDelay: 50 * time.Millisecond,
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	// 如果未設置續期間隔，使用過期時間的1/3
	if options.renewInterval <= 0 {
		options.renewInterval = options.expiry / 3
	}

	// 重試由 Lock 自己控制，redsync 只嘗試一次
	mutex := rs.NewMutex(
		key,
		redsync.WithExpiry(options.expiry),
		redsync.WithTries(1),
	)

	return &AutoRenewMutex{
		mutex:   mutex,
		options: options,
	}
}

// Lock 獲取鎖並啟動自動續期，支持通過context取消
func (m *AutoRenewMutex) Lock(ctx context.Context) (context.Context, error) {
	var deadline <-chan time.Time
	if m.options.waitTimeout > 0 {
		waitTimer := time.NewTimer(m.options.waitTimeout)
		defer waitTimer.Stop()
		deadline = waitTimer.C
	}
	retry := time.NewTimer(0)
	defer retry.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("key %s: %w", m.mutex.Name(), ErrLockWaitTimeout)
		case <-retry.C:
			err := m.mutex.LockContext(ctx)
			if err == nil {
				lockCtx, cancel := context.WithCancel(ctx)
				m.startAutoRenew(lockCtx, cancel, m.mutex.Until())
				return lockCtx, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// 鎖被其他人持有時重試；Redis 通訊錯誤除非設置了 skipLockError 否則直接返回
			var commErr *redsync.RedisError
			if !m.options.skipLockError && errors.As(err, &commErr) {
				return nil, fmt.Errorf("failed to acquire lock: %w", err)
			}
			retry.Reset(m.options.retryDelay)
		}
	}
}

// Unlock 停止自動續期並釋放鎖
func (m *AutoRenewMutex) Unlock() (bool, error) {
	m.stopAutoRenew()
	m.wg.Wait()
	return m.mutex.Unlock()
}

// Valid 檢查鎖是否仍然有效
func (m *AutoRenewMutex) Valid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renewing && time.Now().Before(m.until)
}

func (m *AutoRenewMutex) startAutoRenew(ctx context.Context, cancel context.CancelFunc, until time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel = cancel
	m.renewing = true
	m.until = until
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.options.renewInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// 續期失敗代表鎖已經不屬於自己，取消 context 讓持有者停止寫入
				ok, err := m.mutex.ExtendContext(ctx)
				if err != nil || !ok {
					m.stopAutoRenew()
					return
				}
				until := m.mutex.Until()
				m.mu.Lock()
				m.until = until
				m.mu.Unlock()
			}
		}
	}()
}

func (m *AutoRenewMutex) stopAutoRenew() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.renewing {
		return
	}
	m.renewing = false
	if m.cancel != nil {
		m.cancel()
	}
}
