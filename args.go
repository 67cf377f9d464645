package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"q4auction/api"
	"q4auction/api/openapi"
)

func ParseArgs() (Args, error) {
	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")
	pflag.String("server-id", "", "instance name, used as the notification consumer name")
	pflag.String("store", string(api.StoreMemory), "auction store: postgres, redis or memory")

	// log config
	pflag.String("log-level", "info", "debug, info, warn or error")
	pflag.String("log-format", "text", "text or json")

	// auth config
	pflag.String("auth-public-key-file", "", "PEM encoded ed25519 public key of the identity service")

	// db config
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "public", "")
	pflag.Bool("db-auto-migrate", false, "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 15, "")
	pflag.String("redis-key-prefix", "q4:", "")

	// redis stream keys
	pflag.String("redis-stream-key-for-notification", "q4-notification-stream", "")
	pflag.Int64("redis-stream-max-len", 100000, "")
	pflag.String("redis-consumer-group", "q4-notification-group", "")

	// lock config
	pflag.Duration("lock-expiry", 0, "redis lock expiry, 0 uses the default")
	pflag.Duration("lock-wait-timeout", 0, "max time to wait for an auction lock, 0 waits until the request ends")

	// sweeper config
	pflag.Duration("sweeper-interval", 0, "interval of the expiry sweeper, 0 uses the default")
	pflag.Int("sweeper-batch-size", 100, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("AUCTION")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	args := Args{
		ServerURL: viper.GetString("server-url"),
		LogLevel:  viper.GetString("log-level"),
		LogFormat: viper.GetString("log-format"),
		ServerConfig: api.ServerConfig{
			ID:    viper.GetString("server-id"),
			Store: api.StoreKind(viper.GetString("store")),
			DB: api.DBConfig{
				User:        viper.GetString("db-user"),
				Password:    viper.GetString("db-password"),
				Host:        viper.GetString("db-host"),
				Port:        viper.GetInt("db-port"),
				Database:    viper.GetString("db-database"),
				Schema:      viper.GetString("db-schema"),
				AutoMigrate: viper.GetBool("db-auto-migrate"),
			},
			Redis: api.RedisConfig{
				Addr:      viper.GetString("redis-addr"),
				Password:  viper.GetString("redis-password"),
				DB:        viper.GetInt("redis-db"),
				KeyPrefix: viper.GetString("redis-key-prefix"),
				StreamKeys: api.RedisStreamKeys{
					Notification: viper.GetString("redis-stream-key-for-notification"),
				},
				StreamMaxLen:  viper.GetInt64("redis-stream-max-len"),
				ConsumerGroup: viper.GetString("redis-consumer-group"),
			},
			Lock: api.LockConfig{
				Expiry:      viper.GetDuration("lock-expiry"),
				WaitTimeout: viper.GetDuration("lock-wait-timeout"),
			},
			Sweeper: api.SweeperConfig{
				Interval:  viper.GetDuration("sweeper-interval"),
				BatchSize: viper.GetInt("sweeper-batch-size"),
			},
		},
	}
	if args.ServerConfig.ID == "" {
		args.ServerConfig.ID, _ = os.Hostname()
	}
	if args.ServerConfig.Sweeper.Interval == 0 {
		args.ServerConfig.Sweeper.Interval = api.DefaultSweeperInterval
	}

	// 讀取身分服務的公鑰
	if path := viper.GetString("auth-public-key-file"); path != "" {
		pem, err := os.ReadFile(path)
		if err != nil {
			return Args{}, fmt.Errorf("read auth public key: %w", err)
		}
		key, err := openapi.ParsePublicKey(pem)
		if err != nil {
			return Args{}, err
		}
		args.ServerConfig.Auth.PublicKey = key
	}
	return args, nil
}

type Args struct {
	ServerURL    string
	LogLevel     string
	LogFormat    string
	ServerConfig api.ServerConfig
}

func (args Args) Validate() error {
	var errs []error
	if args.ServerURL == "" {
		errs = append(errs, errors.New("server-url is required"))
	}
	if args.ServerConfig.Auth.PublicKey == nil {
		errs = append(errs, errors.New("auth-public-key-file is required"))
	}
	switch args.ServerConfig.Store {
	case api.StorePostgres:
		if args.ServerConfig.DB.Host == "" || args.ServerConfig.DB.Database == "" {
			errs = append(errs, errors.New("db-host and db-database are required for the postgres store"))
		}
	case api.StoreRedis:
		if args.ServerConfig.Redis.Addr == "" {
			errs = append(errs, errors.New("redis-addr is required for the redis store"))
		}
	case api.StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", args.ServerConfig.Store))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(args.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("invalid log-level %q", args.LogLevel))
	}
	if args.LogFormat != "text" && args.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log-format %q", args.LogFormat))
	}
	return errors.Join(errs...)
}

// Logger 依照 log-level 與 log-format 建立日誌記錄器
func (args Args) Logger() *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(args.LogLevel))
	options := &slog.HandlerOptions{Level: level}
	if args.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}
