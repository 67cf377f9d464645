package api

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"q4auction/api/openapi"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	impl       *ServerImpl
	router     *gin.Engine
	clock      *testClock
	privateKey ed25519.PrivateKey
}

// setupServer 建立使用記憶體儲存的 server
func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	clock := &testClock{now: time.Now().UTC().Truncate(time.Second)}
	impl, err := NewServer(ServerConfig{
		ID:    "test",
		Store: StoreMemory,
		Lock:  LockConfig{WaitTimeout: time.Second},
		Auth:  AuthConfig{PublicKey: publicKey},
	}, WithServerLogger(discardLogger), WithServerClock(clock.Now))
	require.NoError(t, err)
	require.NoError(t, impl.Start())
	t.Cleanup(impl.Close)

	router := gin.New()
	router.Use(RequestLogger(discardLogger))
	impl.RegisterRoutes(router)
	return &testServer{impl: impl, router: router, clock: clock, privateKey: privateKey}
}

func (s *testServer) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, openapi.JWT{
		Username: "tester",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(s.privateKey)
	require.NoError(t, err)
	return signed
}

// do 送出請求，userID 為 uuid.Nil 時不帶 token
func (s *testServer) do(t *testing.T, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, userID))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// createAuction 透過 API 建立拍賣並回傳 ID
func (s *testServer) createAuction(t *testing.T, sellerID uuid.UUID, body map[string]any) uuid.UUID {
	t.Helper()
	req := map[string]any{
		"title":          "film camera",
		"type":           "up",
		"starting_price": 100,
		"bid_increment":  10,
		"ends_at":        s.clock.Now().Add(time.Hour),
	}
	for k, v := range body {
		req[k] = v
	}
	w := s.do(t, http.MethodPost, "/auctions", sellerID, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[openapi.Auction](t, w).Id
}
