package engine

import "time"

// Remaining 是距離拍賣結束的剩餘時間，只用於顯示
type Remaining struct {
	Days      int64 `json:"days"`
	Hours     int64 `json:"hours"`
	Minutes   int64 `json:"minutes"`
	Seconds   int64 `json:"seconds"`
	IsExpired bool  `json:"isExpired"`
}

// TimeRemaining 計算 endsAt 距離 now 的剩餘時間
// 能不能出價永遠以 commit 時的 now < ends_at 為準，而不是這個結果
func TimeRemaining(endsAt, now time.Time) Remaining {
	if !now.Before(endsAt) {
		return Remaining{IsExpired: true}
	}
	left := int64(endsAt.Sub(now) / time.Second)
	return Remaining{
		Days:    left / 86400,
		Hours:   left % 86400 / 3600,
		Minutes: left % 3600 / 60,
		Seconds: left % 60,
	}
}
