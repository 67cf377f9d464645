package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"q4auction/api/openapi"
	"q4auction/engine"
	"q4auction/models"
)

var ErrInvalidRequest = errors.New("invalid request")

// statusOf 把錯誤對應到 HTTP 狀態碼，未知的錯誤一律視為 500
func statusOf(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrAuctionClosed):
		return http.StatusGone
	case errors.Is(err, engine.ErrSelfBidForbidden), errors.Is(err, engine.ErrNotSeller):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, models.ErrCursorNotFound):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrVersionConflict), errors.Is(err, engine.ErrLockTimeout):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage 回給使用者的錯誤訊息，hidePrice 時帶價格的拒絕不顯示金額
func publicMessage(err error, hidePrice bool) string {
	var priceErr *engine.PriceError
	if hidePrice && errors.As(err, &priceErr) {
		return priceErr.Redacted()
	}
	return err.Error()
}

// errorBody 把預期內的錯誤轉成狀態碼與回應內容
// ok 為 false 表示是內部錯誤，handler 要把錯誤往上回傳由產生的程式碼回應 500
func errorBody(err error) (status int, body openapi.Error, ok bool) {
	status = statusOf(err)
	if status == http.StatusInternalServerError {
		return status, openapi.Error{}, false
	}
	return status, openapi.Error{Error: publicMessage(err, false)}, true
}

// paramErrorHandler 處理產生的路由在綁定路徑與查詢參數時的錯誤
func paramErrorHandler(c *gin.Context, err error, statusCode int) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, openapi.Error{Error: err.Error()})
}
