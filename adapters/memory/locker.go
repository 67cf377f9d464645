package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"q4auction/engine"
)

// Locker 是單一進程內以拍賣 ID 為單位的互斥鎖
// 不同拍賣之間互不阻塞，沒有人持有或等待的鎖會被回收
type Locker struct {
	mu          sync.Mutex
	slots       map[uuid.UUID]*slot
	waitTimeout time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

type LockerOption func(*Locker)

// WithLockerWaitTimeout 設置等待鎖的最長時間，0 表示只受 context 限制
func WithLockerWaitTimeout(d time.Duration) LockerOption {
	return func(l *Locker) {
		l.waitTimeout = d
	}
}

func NewLocker(opts ...LockerOption) *Locker {
	l := &Locker{slots: make(map[uuid.UUID]*slot)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock 取得拍賣的鎖，回傳的 context 在釋放鎖時取消
func (l *Locker) Lock(ctx context.Context, auctionID uuid.UUID) (context.Context, func(), error) {
	s := l.acquire(auctionID)

	var timeout <-chan time.Time
	if l.waitTimeout > 0 {
		timer := time.NewTimer(l.waitTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(auctionID)
		return nil, nil, ctx.Err()
	case <-timeout:
		l.release(auctionID)
		return nil, nil, fmt.Errorf("auction %s: %w", auctionID, engine.ErrLockTimeout)
	}

	lockCtx, cancel := context.WithCancel(ctx)
	var once sync.Once
	return lockCtx, func() {
		once.Do(func() {
			cancel()
			<-s.ch
			l.release(auctionID)
		})
	}, nil
}

func (l *Locker) acquire(auctionID uuid.UUID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[auctionID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[auctionID] = s
	}
	s.refs++
	return s
}

func (l *Locker) release(auctionID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[auctionID]
	if !ok {
		return
	}
	s.refs--
	if s.refs == 0 {
		delete(l.slots, auctionID)
	}
}
