package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"q4auction/adapters/database"
	"q4auction/adapters/memory"
	redisAdapter "q4auction/adapters/redis"
	"q4auction/api/openapi"
	"q4auction/engine"
	"q4auction/models"
)

// AuctionStore 是 API 需要的拍賣儲存，三種儲存方式都實作這個介面
type AuctionStore interface {
	engine.Repository
	engine.Ledger
	Create(ctx context.Context, auction models.Auction) error
	Get(ctx context.Context, auctionID uuid.UUID) (models.Auction, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
	ListAuctions(ctx context.Context, query models.AuctionQuery) ([]models.Auction, error)
	OverdueLister
}

// NotificationStore 保存與讀取已送達的通知
type NotificationStore interface {
	SaveNotification(ctx context.Context, notification models.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
}

type serverOptions struct {
	logger *slog.Logger
	now    func() time.Time
}

type ServerOption func(*serverOptions)

// WithServerLogger 設置日誌記錄器
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithServerClock 設置時間來源 (主要用於測試)，同時套用到 engine 與 sweeper
func WithServerClock(now func() time.Time) ServerOption {
	return func(o *serverOptions) {
		o.now = now
	}
}

type ServerImpl struct {
	store         AuctionStore
	notifications NotificationStore
	engine        *engine.Engine
	htmlChecker   *bluemonday.Policy
	redisClient   *redis.Client
	db            *gorm.DB
	// workers 依序啟動，反序關閉
	workers []redisAdapter.IWorker
	logger  *slog.Logger
	now     func() time.Time

	config ServerConfig
}

func NewServer(config ServerConfig, opts ...ServerOption) (*ServerImpl, error) {
	const op = "NewServer"

	// 默認選項
	options := serverOptions{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}

	impl := &ServerImpl{
		htmlChecker: bluemonday.UGCPolicy(),
		logger:      options.logger.With(slog.String("caller", "Server")),
		now:         options.now,
		config:      config,
	}
	var (
		locker   engine.Locker
		notifier engine.Notifier
	)

	// 初始化資料庫連線
	if config.Store == StorePostgres {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			NamingStrategy: schema.NamingStrategy{
				TablePrefix: config.DB.Schema + ".",
			},
		})
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
		}
		impl.db = db
		if config.DB.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				impl.Close()
				return nil, fmt.Errorf("[%s] Fail to migrate database, err=%w", op, err)
			}
		}
		repo, err := database.NewRepository(db)
		if err != nil {
			impl.Close()
			return nil, fmt.Errorf("[%s] Fail to create database repository, err=%w", op, err)
		}
		impl.store = repo
		impl.notifications = repo
	}

	// 初始化Redis連線
	if config.Redis.Addr != "" {
		impl.redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := impl.initRedis(config, options.logger, &locker, &notifier); err != nil {
			impl.Close()
			return nil, fmt.Errorf("[%s] %w", op, err)
		}
	} else if config.Store == StoreRedis {
		return nil, fmt.Errorf("[%s] Fail to create redis store, err=redis address is required", op)
	}

	switch config.Store {
	case StorePostgres, StoreRedis:
	case StoreMemory:
		impl.store = memory.NewRepository()
	default:
		impl.Close()
		return nil, fmt.Errorf("[%s] Fail to create store, err=unknown store kind %q", op, config.Store)
	}

	// 沒有Redis時只能在單一進程內互斥，通知只寫進日誌
	if locker == nil {
		locker = memory.NewLocker(memory.WithLockerWaitTimeout(config.Lock.WaitTimeout))
	}
	if notifier == nil {
		notifier = memory.NewLogNotifier(options.logger)
	}

	// 初始化出價引擎
	auctionEngine, err := engine.New(impl.store, impl.store,
		engine.WithLocker(locker),
		engine.WithNotifier(notifier),
		engine.WithLogger(options.logger),
		engine.WithClock(options.now),
	)
	if err != nil {
		impl.Close()
		return nil, fmt.Errorf("[%s] Fail to create engine, err=%w", op, err)
	}
	impl.engine = auctionEngine

	// 初始化到期結算排程
	if config.Sweeper.Interval > 0 {
		sweeper, err := NewSweeper(impl.store, auctionEngine,
			WithSweeperLogger(options.logger),
			WithSweeperInterval(config.Sweeper.Interval),
			WithSweeperBatchSize(config.Sweeper.BatchSize),
			WithSweeperClock(options.now),
		)
		if err != nil {
			impl.Close()
			return nil, fmt.Errorf("[%s] Fail to create sweeper, err=%w", op, err)
		}
		impl.workers = append(impl.workers, sweeper)
	}
	return impl, nil
}

// initRedis 建立以Redis為基礎的鎖、通知與 (store=redis 時的) 拍賣儲存
func (impl *ServerImpl) initRedis(config ServerConfig, logger *slog.Logger, locker *engine.Locker, notifier *engine.Notifier) error {
	// 初始化拍賣鎖
	var mutexOpts []redisAdapter.AutoRenewMutexOption
	if config.Lock.Expiry > 0 {
		mutexOpts = append(mutexOpts, redisAdapter.WithAutoRenewMutexExpiry(config.Lock.Expiry))
	}
	if config.Lock.WaitTimeout > 0 {
		mutexOpts = append(mutexOpts, redisAdapter.WithAutoRenewMutexWaitTimeout(config.Lock.WaitTimeout))
	}
	auctionLocker, err := redisAdapter.NewAuctionLocker(impl.redisClient,
		redisAdapter.WithAuctionLockerKeyPrefix(config.Redis.KeyPrefix),
		redisAdapter.WithAuctionLockerLogger(logger),
		redisAdapter.WithAuctionLockerMutexOptions(mutexOpts...),
	)
	if err != nil {
		return fmt.Errorf("Fail to create auction locker, err=%w", err)
	}
	*locker = auctionLocker

	// 初始化拍賣儲存
	if config.Store == StoreRedis {
		repo, err := redisAdapter.NewRepository(impl.redisClient, redisAdapter.WithRepositoryPrefix(config.Redis.KeyPrefix))
		if err != nil {
			return fmt.Errorf("Fail to create redis repository, err=%w", err)
		}
		impl.store = repo
	}

	stream := config.Redis.StreamKeys.Notification
	if stream == "" {
		return nil
	}

	// 初始化通知worker，把stream中的通知存回資料庫
	if impl.notifications != nil {
		worker, err := redisAdapter.NewNotificationWorker(
			impl.redisClient,
			stream,
			config.Redis.ConsumerGroup,
			config.ID,
			impl.saveNotification,
			redisAdapter.WithNotificationWorkerLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("Fail to create notification worker, err=%w", err)
		}
		impl.workers = append(impl.workers, worker)
	}

	// 初始化通知發送者
	dispatcher, err := redisAdapter.NewDispatcher(impl.redisClient, stream,
		redisAdapter.WithDispatcherLogger(logger),
		redisAdapter.WithDispatcherMaxLen(config.Redis.StreamMaxLen),
	)
	if err != nil {
		return fmt.Errorf("Fail to create notification dispatcher, err=%w", err)
	}
	impl.workers = append(impl.workers, dispatcher)
	*notifier = dispatcher
	return nil
}

// saveNotification 是通知worker的處理函數
func (impl *ServerImpl) saveNotification(ctx context.Context, message redisAdapter.NotificationMessage) error {
	const op = "SaveNotification"
	if message.ID == uuid.Nil || message.UserID == uuid.Nil {
		return fmt.Errorf("[%s] Fail to save notification, err=%w", op, errors.New("notification without id or user"))
	}
	return impl.notifications.SaveNotification(ctx, models.Notification{
		ID:        message.ID,
		UserID:    message.UserID,
		Kind:      message.Kind,
		AuctionID: message.Event.AuctionID,
		BidID:     message.Event.BidID,
		Price:     message.Event.Price,
		Status:    message.Event.Status,
		EventTime: message.Event.Time,
	})
}

// Start 啟動背景worker
func (impl *ServerImpl) Start() error {
	const op = "Start"
	for _, worker := range impl.workers {
		if err := worker.Start(); err != nil {
			return fmt.Errorf("[%s] Fail to start worker, err=%w", op, err)
		}
	}
	return nil
}

// Close 關閉背景worker與所有連線
// 先停止結算排程，再讓通知發送者把緩衝中的通知寫入stream，最後停止通知worker
func (impl *ServerImpl) Close() {
	for i := len(impl.workers) - 1; i >= 0; i-- {
		impl.workers[i].Close()
	}
	impl.workers = nil
	if impl.redisClient != nil {
		if err := impl.redisClient.Close(); err != nil {
			impl.logger.Warn("Fail to close redis client", slog.Any("error", err))
		}
	}
	if impl.db != nil {
		if sqlDB, err := impl.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				impl.logger.Warn("Fail to close database", slog.Any("error", err))
			}
		}
	}
}

// RegisterRoutes 把 strict handler 註冊到產生的路由上
func (impl *ServerImpl) RegisterRoutes(router gin.IRouter) {
	handler := openapi.NewStrictHandler(impl, nil)
	openapi.RegisterHandlersWithOptions(router, handler, openapi.GinServerOptions{
		Middlewares:  []openapi.MiddlewareFunc{impl.Authenticate},
		ErrorHandler: paramErrorHandler,
	})
}
