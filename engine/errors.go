package engine

import (
	"errors"
	"fmt"
)

// 業務規則的拒絕，以錯誤值回傳，呼叫端用 errors.Is 判斷
var (
	ErrNotFound         = errors.New("auction not found")
	ErrAuctionClosed    = errors.New("auction closed")
	ErrSelfBidForbidden = errors.New("seller cannot bid on own auction")
	ErrInvalidAmount    = errors.New("invalid bid amount")
	ErrNotSeller        = errors.New("only the seller can change the auction")
)

// 併發競爭造成的暫時性錯誤，重新讀取拍賣狀態後可以再送出
var (
	ErrVersionConflict = errors.New("auction version conflict")
	ErrLockTimeout     = errors.New("timed out waiting for auction lock")
)

// Retryable 錯誤是否為暫時性的併發競爭
func Retryable(err error) bool {
	return errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrLockTimeout)
}

// rejectReason 出價紀錄上保存的拒絕原因
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAuctionClosed):
		return "auction_closed"
	case errors.Is(err, ErrSelfBidForbidden):
		return "self_bid_forbidden"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "unknown"
	}
}

// PriceError 是帶有價格資訊的拒絕，Price 是最低可接受的金額或目前價格
// 私人出價的拍賣進行中，回給賣家以外的人時要用 Redacted
type PriceError struct {
	Err    error
	Reason string
	Price  int64
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("%s: %s, price=%d", e.Err, e.Reason, e.Price)
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// Redacted 不含價格的訊息
func (e *PriceError) Redacted() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Reason)
}
