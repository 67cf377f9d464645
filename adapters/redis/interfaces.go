package redis

import (
	"context"
)

// IAutoRenewMutex 定義了 AutoRenewMutex 的操作介面
type IAutoRenewMutex interface {
	// Lock 取得鎖並回傳持有鎖期間有效的 context，續期失敗時該 context 會被取消
	Lock(ctx context.Context) (context.Context, error)
	Unlock() (bool, error)
	Valid() bool
}

// IWorker 定義了背景 worker 的生命週期
type IWorker interface {
	Start() error
	Close()
}
