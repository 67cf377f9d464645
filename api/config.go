package api

import (
	"crypto"
	"time"
)

// StoreKind 拍賣資料存放的位置
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
	StoreMemory   StoreKind = "memory"
)

type ServerConfig struct {
	// ID 是這個實例的名稱，用於 consumer group 的 consumer
	ID      string
	Store   StoreKind
	DB      DBConfig
	Redis   RedisConfig
	Lock    LockConfig
	Sweeper SweeperConfig
	Auth    AuthConfig
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
	// AutoMigrate 啟動時是否自動建立資料表
	AutoMigrate bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string

	StreamKeys    RedisStreamKeys
	// StreamMaxLen 通知 stream 的大約長度上限，0 表示不修剪
	StreamMaxLen  int64
	ConsumerGroup string
}

type RedisStreamKeys struct {
	Notification string
}

type LockConfig struct {
	Expiry      time.Duration
	WaitTimeout time.Duration
}

type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

type AuthConfig struct {
	// PublicKey 用於驗證身分服務簽發的 EdDSA access token
	PublicKey crypto.PublicKey
}
