package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"q4auction/engine"
)

func TestLocker_MutualExclusion(t *testing.T) {
	defer goleak.VerifyNone(t)

	locker := NewLocker()
	auctionID := uuid.New()

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		maxSeen atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, unlock, err := locker.Lock(context.Background(), auctionID)
			if !assert.NoError(t, err) {
				return
			}
			n := holders.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			holders.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	// 沒有人持有或等待時 slot 會被回收
	locker.mu.Lock()
	assert.Empty(t, locker.slots)
	locker.mu.Unlock()
}

func TestLocker_IndependentAuctions(t *testing.T) {
	locker := NewLocker(WithLockerWaitTimeout(50 * time.Millisecond))

	_, unlockA, err := locker.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	defer unlockA()

	_, unlockB, err := locker.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	unlockB()
}

func TestLocker_WaitTimeout(t *testing.T) {
	locker := NewLocker(WithLockerWaitTimeout(20 * time.Millisecond))
	auctionID := uuid.New()

	_, unlock, err := locker.Lock(context.Background(), auctionID)
	require.NoError(t, err)

	_, _, err = locker.Lock(context.Background(), auctionID)
	assert.ErrorIs(t, err, engine.ErrLockTimeout)

	unlock()
	_, unlock, err = locker.Lock(context.Background(), auctionID)
	require.NoError(t, err)
	unlock()
}

func TestLocker_ContextCancelled(t *testing.T) {
	locker := NewLocker()
	auctionID := uuid.New()

	_, unlock, err := locker.Lock(context.Background(), auctionID)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = locker.Lock(ctx, auctionID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_UnlockCancelsContextOnce(t *testing.T) {
	locker := NewLocker()

	lockCtx, unlock, err := locker.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NoError(t, lockCtx.Err())

	unlock()
	assert.ErrorIs(t, lockCtx.Err(), context.Canceled)
	// 重複釋放不會阻塞
	unlock()
}
