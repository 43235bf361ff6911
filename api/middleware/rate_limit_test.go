package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(config.APIRateLimitConfig{RequestsPerSecond: 1, Burst: 2, IdleTTL: time.Minute}, nil)
	frozen := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }
	handler := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
		if resp.Code == http.StatusTooManyRequests {
			require.Equal(t, "1", resp.Header().Get("Retry-After"))
		}
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, other)
	require.Equal(t, http.StatusOK, resp.Code, "separate clients get separate buckets")
}

func TestRateLimiterKeysByUser(t *testing.T) {
	rl := NewRateLimiter(config.APIRateLimitConfig{RequestsPerSecond: 1, Burst: 1}, nil)
	frozen := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }
	handler := rl.Handler(okHandler())

	for _, id := range []uuid.UUID{uuid.New(), uuid.New()} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: id}))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(config.APIRateLimitConfig{RequestsPerSecond: 5, Burst: 5, IdleTTL: time.Minute}, nil)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("a"))
	now = now.Add(30 * time.Second)
	require.True(t, rl.allow("b"))
	now = now.Add(45 * time.Second)

	require.Equal(t, 1, rl.Prune())
	require.Len(t, rl.clients, 1)
	require.Contains(t, rl.clients, "b")
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.APIRateLimitConfig{}, nil)
	h := okHandler()
	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		rl.Handler(h).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, resp.Code)
	}
}
