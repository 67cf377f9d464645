package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"q4auction/api/openapi"
)

const (
	accessTokenCookie = "access_token"
	contextKeyUserID  = "q4-auth-user-id"
)

var ErrUnauthorized = errors.New("unauthorized")

// accessToken 從 Authorization header 或 cookie 取得 token
func accessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(accessTokenCookie); err == nil {
		return token
	}
	return ""
}

// authenticate 解析 token；沒有 token 時 ok 為 false 且 err 為 nil
func (impl *ServerImpl) authenticate(c *gin.Context) (userID uuid.UUID, ok bool, err error) {
	token := accessToken(c)
	if token == "" {
		return uuid.Nil, false, nil
	}
	claims, err := openapi.ParseAndValidateJWT(token, impl.config.Auth.PublicKey)
	if err != nil {
		return uuid.Nil, false, err
	}
	userID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, true, nil
}

// Authenticate 是掛在產生的路由上的 middleware
// 標記 bearerAuth 的操作需要有效的 access token，其餘操作沒有或無效時以匿名身分繼續
func (impl *ServerImpl) Authenticate(c *gin.Context) {
	_, required := c.Get(openapi.BearerAuthScopes)
	userID, ok, err := impl.authenticate(c)
	if err != nil && required {
		impl.logger.Debug("Fail to parse and validate JWT", slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	if ok {
		c.Set(contextKeyUserID, userID)
		return
	}
	if required {
		c.AbortWithStatusJSON(http.StatusUnauthorized, openapi.Error{Error: ErrUnauthorized.Error()})
	}
}

// currentUser 回傳目前請求的使用者，匿名時回傳 uuid.Nil
// strict handler 拿到的 ctx 是 *gin.Context，Value 會讀到 c.Set 的內容
func currentUser(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(contextKeyUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// requestContext 取出請求本身的 context，讓取消訊號傳到 engine 與儲存層
func requestContext(ctx context.Context) context.Context {
	if c, ok := ctx.(*gin.Context); ok && c.Request != nil {
		return c.Request.Context()
	}
	return ctx
}
