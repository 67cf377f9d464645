package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewAutoRenewMutex(t *testing.T) {
	tests := []struct {
		name string
		key  string
		opts []AutoRenewMutexOption
	}{
		{
			name: "default options",
			key:  "test-lock",
		},
		{
			name: "custom options",
			key:  "test-lock",
			opts: []AutoRenewMutexOption{
				WithAutoRenewMutexExpiry(5 * time.Second),
				WithAutoRenewMutexRenewInterval(1 * time.Second),
				WithAutoRenewMutexRetryDelay(100 * time.Millisecond),
				WithAutoRenewMutexWaitTimeout(time.Second),
				WithAutoRenewMutexSkipLockError(true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)
			client, _, cleanup := setupTest(t)
			defer cleanup()

			mutex := NewAutoRenewMutex(redsync.New(goredis.NewPool(client)), tt.key, tt.opts...)
			require.NotNil(t, mutex)
			assert.False(t, mutex.Valid())
		})
	}
}

func TestAutoRenewMutex_Lock(t *testing.T) {
	t.Run("lock and unlock", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		mr, client, cleanup := setupMiniredis(t)
		defer cleanup()

		mutex := NewAutoRenewMutex(redsync.New(goredis.NewPool(client)), "test-lock")
		lockCtx, err := mutex.Lock(context.Background())
		require.NoError(t, err)
		assert.True(t, mr.Exists("test-lock"))
		assert.True(t, mutex.Valid())

		ok, err := mutex.Unlock()
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, mr.Exists("test-lock"))
		assert.False(t, mutex.Valid())

		select {
		case <-lockCtx.Done():
		case <-time.After(100 * time.Millisecond):
			t.Error("lock context was not cancelled after unlock")
		}
	})

	t.Run("context already cancelled", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()

		mutex := NewAutoRenewMutex(redsync.New(goredis.NewPool(client)), "test-lock")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		lockCtx, err := mutex.Lock(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, lockCtx)
	})

	t.Run("wait timeout while held by another owner", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()
		rs := redsync.New(goredis.NewPool(client))

		holder := NewAutoRenewMutex(rs, "test-lock")
		_, err := holder.Lock(context.Background())
		require.NoError(t, err)

		waiter := NewAutoRenewMutex(rs, "test-lock",
			WithAutoRenewMutexWaitTimeout(150*time.Millisecond),
			WithAutoRenewMutexRetryDelay(20*time.Millisecond))
		start := time.Now()
		lockCtx, err := waiter.Lock(context.Background())
		assert.ErrorIs(t, err, ErrLockWaitTimeout)
		assert.Nil(t, lockCtx)
		assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)

		ok, err := holder.Unlock()
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("acquired after the holder releases", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()
		rs := redsync.New(goredis.NewPool(client))

		holder := NewAutoRenewMutex(rs, "test-lock")
		_, err := holder.Lock(context.Background())
		require.NoError(t, err)

		go func() {
			time.Sleep(100 * time.Millisecond)
			holder.Unlock()
		}()

		waiter := NewAutoRenewMutex(rs, "test-lock", WithAutoRenewMutexRetryDelay(20*time.Millisecond))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		lockCtx, err := waiter.Lock(ctx)
		require.NoError(t, err)
		assert.NotNil(t, lockCtx)

		ok, err := waiter.Unlock()
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("redis unavailable and skip error disabled", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		defer client.Close()

		mutex := NewAutoRenewMutex(redsync.New(goredis.NewPool(client)), "test-lock")
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		lockCtx, err := mutex.Lock(ctx)
		assert.Error(t, err)
		assert.Nil(t, lockCtx)
	})
}

func TestAutoRenewMutex_AutoRenew(t *testing.T) {
	t.Run("renewal keeps the lock valid past its expiry", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		_, client, cleanup := setupMiniredis(t)
		defer cleanup()

		mutex := NewAutoRenewMutex(redsync.New(goredis.NewPool(client)), "test-lock",
			WithAutoRenewMutexExpiry(300*time.Millisecond),
			WithAutoRenewMutexRenewInterval(50*time.Millisecond))

		lockCtx, err := mutex.Lock(context.Background())
		require.NoError(t, err)

		// 續期期間持續從另一個 goroutine 檢查狀態
		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					mutex.Valid()
					time.Sleep(time.Millisecond)
				}
			}
		}()

		time.Sleep(450 * time.Millisecond)
		close(done)
		wg.Wait()
		assert.True(t, mutex.Valid())
		assert.NoError(t, lockCtx.Err())

		ok, err := mutex.Unlock()
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("lost lock cancels the context", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		mr, client, cleanup := setupMiniredis(t)
		defer cleanup()

		mutex := NewAutoRenewMutex(redsync.New(goredis.NewPool(client)), "test-lock",
			WithAutoRenewMutexExpiry(2*time.Second),
			WithAutoRenewMutexRenewInterval(50*time.Millisecond))

		lockCtx, err := mutex.Lock(context.Background())
		require.NoError(t, err)

		// 模擬鎖過期後被其他人拿走
		mr.Set("test-lock", "someone-else")

		select {
		case <-lockCtx.Done():
		case <-time.After(time.Second):
			t.Fatal("lock context was not cancelled after renewal failed")
		}
		assert.False(t, mutex.Valid())

		ok, _ := mutex.Unlock()
		assert.False(t, ok)
		assert.Equal(t, "someone-else", lo.Must(mr.Get("test-lock")))
	})
}
