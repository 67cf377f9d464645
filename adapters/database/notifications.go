package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"q4auction/models"
)

// SaveNotification 保存一則送給使用者的通知
// 同一個 ID 重複寫入時忽略，讓 stream 重送的訊息不會產生重複紀錄
func (r *Repository) SaveNotification(ctx context.Context, notification models.Notification) error {
	const op = "database.Repository.SaveNotification"

	if result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&notification); result.Error != nil {
		return fmt.Errorf("[%s] Fail to save notification, err=%w", op, result.Error)
	}
	return nil
}

// ListNotifications 回傳使用者的通知，最新的在前
func (r *Repository) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	const op = "database.Repository.ListNotifications"

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "event_time"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}})
	if limit > 0 {
		query = query.Limit(limit)
	}
	var notifications []models.Notification
	if result := query.Find(&notifications); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to list notifications, err=%w", op, result.Error)
	}
	return notifications, nil
}
