package redis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/smallnest/chanx"

	"q4auction/models"
)

// NotificationMessage 是寫入通知 stream 的內容
// ID 在放進緩衝區時產生，stream 重送同一則訊息時 ID 不變
type NotificationMessage struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Kind   models.EventKind
	Event  models.AuctionEvent
}

type dispatcherOptions struct {
	logger       *slog.Logger
	bufferSize   int
	maxLen       int64
	writeTimeout time.Duration
}

type DispatcherOption func(*dispatcherOptions)

// WithDispatcherLogger 設置日誌記錄器
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.logger = logger
	}
}

// WithDispatcherBufferSize 設置緩衝的初始大小
func WithDispatcherBufferSize(size int) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.bufferSize = size
	}
}

// WithDispatcherMaxLen 設置 stream 的大約長度上限，0 表示不修剪
func WithDispatcherMaxLen(n int64) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.maxLen = n
	}
}

// WithDispatcherWriteTimeout 設置每則通知寫入 Redis 的最長時間
func WithDispatcherWriteTimeout(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.writeTimeout = d
	}
}

// Dispatcher 把通知放進無上限的緩衝區後由背景 goroutine 寫入 Redis stream
// Notify 永遠不會阻塞出價流程，也不會回傳錯誤
type Dispatcher struct {
	client   *redis.Client
	stream   string
	upstream *chanx.UnboundedChan[NotificationMessage]
	mu       sync.Mutex
	running  bool
	wg       sync.WaitGroup
	logger   *slog.Logger
	options  dispatcherOptions
}

func NewDispatcher(client *redis.Client, stream string, opts ...DispatcherOption) (*Dispatcher, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if stream == "" {
		return nil, errors.New("stream cannot be empty")
	}

	// 默認選項
	options := dispatcherOptions{
		logger:       slog.Default(),
		bufferSize:   100,
		writeTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Dispatcher{
		client:  client,
		stream:  stream,
		logger:  options.logger.With(slog.String("caller", "Dispatcher"), slog.String("stream", stream)),
		options: options,
	}, nil
}

// Start 啟動背景寫入，重複呼叫不會有作用
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}
	d.upstream = chanx.NewUnboundedChan[NotificationMessage](context.Background(), d.options.bufferSize)
	d.running = true
	d.logger.Info("starting notification dispatcher")

	d.wg.Add(1)
	go func(out <-chan NotificationMessage) {
		defer d.wg.Done()
		defer d.logger.Info("dispatcher goroutine stopped")

		// Out 在 In 關閉且緩衝清空後才會關閉，所以 Close 前送進來的通知都會寫出
		for message := range out {
			d.publish(message)
		}
	}(d.upstream.Out)
	return nil
}

func (d *Dispatcher) publish(message NotificationMessage) {
	values, err := EncodeMessage(message)
	if err != nil {
		d.logger.Error("encode notification error", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.options.writeTimeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: d.stream,
		Values: values,
	}
	if d.options.maxLen > 0 {
		args.MaxLen = d.options.maxLen
		args.Approx = true
	}
	id, err := d.client.XAdd(ctx, args).Result()
	if err != nil {
		d.logger.Error("publish notification error",
			slog.String("user", message.UserID.String()),
			slog.String("kind", string(message.Kind)),
			slog.Any("error", err),
		)
		return
	}
	d.logger.Debug("notification published", slog.String("messageId", id))
}

// Notify 實作 engine.Notifier
func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, kind models.EventKind, event models.AuctionEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		d.logger.Warn("dispatcher is not running, notification dropped",
			slog.String("user", userID.String()),
			slog.String("kind", string(kind)),
		)
		return
	}
	d.upstream.In <- NotificationMessage{
		ID:     uuid.Must(uuid.NewV7()),
		UserID: userID,
		Kind:   kind,
		Event:  event,
	}
}

// Close 停止接收新通知並等待緩衝中的通知寫完
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.logger.Info("closing notification dispatcher")
	d.running = false
	close(d.upstream.In)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("notification dispatcher closed")
}
