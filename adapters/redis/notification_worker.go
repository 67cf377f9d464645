package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationHandler 處理一則通知，回傳錯誤時會重試，超過次數後移到 dead-letter
type NotificationHandler func(ctx context.Context, message NotificationMessage) error

type notificationWorkerOptions struct {
	logger       *slog.Logger
	blockTimeout time.Duration
	batchSize    int64
	maxAttempts  int
	retryDelay   time.Duration
}

type NotificationWorkerOption func(*notificationWorkerOptions)

// WithNotificationWorkerLogger 設置日誌記錄器
func WithNotificationWorkerLogger(logger *slog.Logger) NotificationWorkerOption {
	return func(o *notificationWorkerOptions) {
		o.logger = logger
	}
}

// WithNotificationWorkerBlockTimeout 設置 XREADGROUP 的阻塞時間
func WithNotificationWorkerBlockTimeout(d time.Duration) NotificationWorkerOption {
	return func(o *notificationWorkerOptions) {
		o.blockTimeout = d
	}
}

// WithNotificationWorkerBatchSize 設置每次讀取的訊息數量
func WithNotificationWorkerBatchSize(n int64) NotificationWorkerOption {
	return func(o *notificationWorkerOptions) {
		o.batchSize = n
	}
}

// WithNotificationWorkerMaxAttempts 設置處理失敗時的最多嘗試次數
func WithNotificationWorkerMaxAttempts(n int) NotificationWorkerOption {
	return func(o *notificationWorkerOptions) {
		o.maxAttempts = n
	}
}

// WithNotificationWorkerRetryDelay 設置重試之間的等待時間
func WithNotificationWorkerRetryDelay(d time.Duration) NotificationWorkerOption {
	return func(o *notificationWorkerOptions) {
		o.retryDelay = d
	}
}

// NotificationWorker 以 consumer group 讀取通知 stream 並交給 handler 處理
// 啟動時會先處理自己名下尚未 ack 的訊息，再讀取新訊息
type NotificationWorker struct {
	client     *redis.Client
	stream     string
	group      string
	consumer   string
	handler    NotificationHandler
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
	logger     *slog.Logger
	options    notificationWorkerOptions
}

func NewNotificationWorker(
	client *redis.Client,
	stream, group, consumer string,
	handler NotificationHandler,
	opts ...NotificationWorkerOption,
) (*NotificationWorker, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if stream == "" || group == "" || consumer == "" {
		return nil, errors.New("stream, group and consumer cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	// 默認選項
	options := notificationWorkerOptions{
		logger:       slog.Default(),
		blockTimeout: 5 * time.Second,
		batchSize:    10,
		maxAttempts:  3,
		retryDelay:   200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.maxAttempts < 1 {
		options.maxAttempts = 1
	}

	return &NotificationWorker{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: consumer,
		handler:  handler,
		logger: options.logger.With(
			slog.String("caller", "NotificationWorker"),
			slog.String("stream", stream),
			slog.String("group", group),
			slog.String("consumer", consumer),
		),
		options: options,
	}, nil
}

// DeadLetterStream 回傳處理失敗的訊息被移入的 stream
func (w *NotificationWorker) DeadLetterStream() string {
	return w.stream + ":dead-letter"
}

// Start 建立 consumer group (若不存在) 並啟動讀取 goroutine
func (w *NotificationWorker) Start() error {
	const op = "NotificationWorker.Start"

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	err := w.client.XGroupCreateMkStream(ctx, w.stream, w.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return fmt.Errorf("[%s] Fail to create consumer group, err=%w", op, err)
	}

	w.cancelFunc = cancel
	w.running = true
	w.logger.Info("starting notification worker")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.logger.Info("notification worker goroutine stopped")
		w.run(ctx)
	}()
	return nil
}

// Close 停止讀取並等待正在處理的訊息完成
func (w *NotificationWorker) Close() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.logger.Info("closing notification worker")
	w.running = false
	w.cancelFunc()
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("notification worker closed")
}

func (w *NotificationWorker) run(ctx context.Context) {
	// "0" 開始讀取自己名下的 pending 訊息，讀完後改讀新訊息 ">"
	cursor := "0"
	for ctx.Err() == nil {
		streams, err := w.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.group,
			Consumer: w.consumer,
			Streams:  []string{w.stream, cursor},
			Count:    w.options.batchSize,
			Block:    w.options.blockTimeout,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			// 一般是 server 跟 redis 之間的通訊異常，稍後重試
			w.logger.Error("fetch message error", slog.Any("error", err))
			w.sleep(ctx, w.options.retryDelay)
			continue
		}

		var messages []redis.XMessage
		if len(streams) > 0 {
			messages = streams[0].Messages
		}
		if cursor != ">" {
			if len(messages) == 0 {
				w.logger.Debug("pending messages drained")
				cursor = ">"
				continue
			}
			cursor = messages[len(messages)-1].ID
		}

		for _, message := range messages {
			if ctx.Err() != nil {
				return
			}
			w.process(ctx, message)
		}
	}
}

func (w *NotificationWorker) process(ctx context.Context, message redis.XMessage) {
	data, err := DecodeMessage[NotificationMessage](message.Values)
	if err != nil {
		// 原始資料有問題，重試也不會成功
		w.logger.Error("failed to decode message",
			slog.String("messageId", message.ID),
			slog.Any("error", err),
		)
		w.deadLetter(ctx, message, err)
		return
	}

	var handleErr error
	for attempt := 1; attempt <= w.options.maxAttempts; attempt++ {
		if handleErr = w.handler(ctx, data); handleErr == nil {
			break
		}
		if ctx.Err() != nil {
			// 訊息留在 pending 中，下次啟動時會重新處理
			return
		}
		w.logger.Warn("handle message error",
			slog.String("messageId", message.ID),
			slog.Int("attempt", attempt),
			slog.Any("error", handleErr),
		)
		if attempt < w.options.maxAttempts {
			w.sleep(ctx, w.options.retryDelay)
		}
	}
	if handleErr != nil {
		w.deadLetter(ctx, message, handleErr)
		return
	}

	if err := w.client.XAck(ctx, w.stream, w.group, message.ID).Err(); err != nil {
		w.logger.Error("failed to ack message",
			slog.String("messageId", message.ID),
			slog.Any("error", err),
		)
	}
}

func (w *NotificationWorker) deadLetter(ctx context.Context, message redis.XMessage, cause error) {
	values := make(map[string]any, len(message.Values)+2)
	for k, v := range message.Values {
		values[k] = v
	}
	values["error"] = cause.Error()
	values["origin_id"] = message.ID

	if err := w.client.XAdd(ctx, &redis.XAddArgs{
		Stream: w.DeadLetterStream(),
		Values: values,
	}).Err(); err != nil {
		// 搬移失敗時訊息留在 pending 中，下次啟動時會重新處理
		w.logger.Error("error moving message to dead letter",
			slog.String("messageId", message.ID),
			slog.Any("error", err),
		)
		return
	}
	if err := w.client.XAck(ctx, w.stream, w.group, message.ID).Err(); err != nil {
		w.logger.Error("failed to ack dead letter message",
			slog.String("messageId", message.ID),
			slog.Any("error", err),
		)
	}
}

func (w *NotificationWorker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
