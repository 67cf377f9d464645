package memory

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"q4auction/models"
)

// LogNotifier 只把通知寫進日誌，用於沒有 Redis 的單機模式
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("caller", "LogNotifier"))}
}

func (n *LogNotifier) Notify(ctx context.Context, userID uuid.UUID, kind models.EventKind, event models.AuctionEvent) {
	n.logger.Info("Notify user",
		slog.String("user", userID.String()),
		slog.String("kind", string(kind)),
		slog.String("auctionID", event.AuctionID.String()),
		slog.Int64("price", event.Price),
		slog.String("status", string(event.Status)),
	)
}
