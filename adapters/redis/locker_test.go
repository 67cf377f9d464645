package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"q4auction/engine"
)

func TestNewAuctionLocker(t *testing.T) {
	_, err := NewAuctionLocker(nil)
	assert.EqualError(t, err, "redis client cannot be nil")
}

func TestAuctionLocker_Lock(t *testing.T) {
	t.Run("lock key and release", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		mr, client, cleanup := setupMiniredis(t)
		defer cleanup()

		locker, err := NewAuctionLocker(client, WithAuctionLockerKeyPrefix("q4:"), WithAuctionLockerLogger(discardLogger))
		require.NoError(t, err)

		auctionID := uuid.New()
		assert.Equal(t, "q4:auction:"+auctionID.String()+":lock", locker.LockKey(auctionID))

		lockCtx, unlock, err := locker.Lock(context.Background(), auctionID)
		require.NoError(t, err)
		assert.True(t, mr.Exists(locker.LockKey(auctionID)))

		unlock()
		unlock() // 重複釋放不會有作用
		assert.False(t, mr.Exists(locker.LockKey(auctionID)))
		assert.Error(t, lockCtx.Err())
	})

	t.Run("same auction waits and times out", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()

		locker, err := NewAuctionLocker(client,
			WithAuctionLockerLogger(discardLogger),
			WithAuctionLockerMutexOptions(
				WithAutoRenewMutexWaitTimeout(100*time.Millisecond),
				WithAutoRenewMutexRetryDelay(20*time.Millisecond),
			))
		require.NoError(t, err)

		auctionID := uuid.New()
		_, unlock, err := locker.Lock(context.Background(), auctionID)
		require.NoError(t, err)
		defer unlock()

		_, _, err = locker.Lock(context.Background(), auctionID)
		assert.ErrorIs(t, err, engine.ErrLockTimeout)
	})

	t.Run("different auctions do not block each other", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()

		locker, err := NewAuctionLocker(client,
			WithAuctionLockerLogger(discardLogger),
			WithAuctionLockerMutexOptions(WithAutoRenewMutexWaitTimeout(100*time.Millisecond)))
		require.NoError(t, err)

		_, unlockA, err := locker.Lock(context.Background(), uuid.New())
		require.NoError(t, err)
		defer unlockA()

		_, unlockB, err := locker.Lock(context.Background(), uuid.New())
		require.NoError(t, err)
		unlockB()
	})

	t.Run("caller context cancelled", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()

		locker, err := NewAuctionLocker(client, WithAuctionLockerLogger(discardLogger))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err = locker.Lock(ctx, uuid.New())
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, engine.ErrLockTimeout)
	})
}
