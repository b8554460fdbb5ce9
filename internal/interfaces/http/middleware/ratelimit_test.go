package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiterAt(limit int, window time.Duration, clock *time.Time) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
		now:     func() time.Time { return *clock },
	}
	return rl
}

func TestNewRateLimiter_ClampsBadConfig(t *testing.T) {
	rl := NewRateLimiter(-5, 0)
	defer rl.Stop()

	assert.Equal(t, 1, rl.limit)
	assert.Equal(t, time.Minute, rl.window)

	// A misconfigured limit must not panic the first request
	decision := rl.Allow("10.0.0.1")
	assert.True(t, decision.Allowed)
	assert.False(t, rl.Allow("10.0.0.1").Allowed)
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	clock := time.Now()
	rl := newLimiterAt(3, time.Minute, &clock)

	for i := 0; i < 3; i++ {
		decision := rl.Allow("10.0.0.1")
		assert.True(t, decision.Allowed)
		assert.Equal(t, 2-i, decision.Remaining)
	}

	decision := rl.Allow("10.0.0.1")
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	clock := time.Now()
	rl := newLimiterAt(2, time.Minute, &clock)

	require.True(t, rl.Allow("k").Allowed)
	clock = clock.Add(30 * time.Second)
	require.True(t, rl.Allow("k").Allowed)
	assert.False(t, rl.Allow("k").Allowed)

	// 31 seconds later the first request slides out, freeing one slot
	clock = clock.Add(31 * time.Second)
	decision := rl.Allow("k")
	assert.True(t, decision.Allowed)
	assert.False(t, rl.Allow("k").Allowed)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	clock := time.Now()
	rl := newLimiterAt(1, time.Minute, &clock)

	assert.True(t, rl.Allow("a").Allowed)
	assert.False(t, rl.Allow("a").Allowed)
	assert.True(t, rl.Allow("b").Allowed)
}

func TestRateLimiter_ResetAtTracksOldestRequest(t *testing.T) {
	clock := time.Now()
	rl := newLimiterAt(2, time.Minute, &clock)

	first := rl.Allow("k")
	assert.Equal(t, clock.Add(time.Minute), first.ResetAt)

	clock = clock.Add(10 * time.Second)
	second := rl.Allow("k")
	// oldest request still anchors the reset
	assert.Equal(t, first.ResetAt, second.ResetAt)
}

func TestRateLimiter_EvictIdleKeys(t *testing.T) {
	clock := time.Now()
	rl := newLimiterAt(5, time.Minute, &clock)

	rl.Allow("stale")
	rl.Allow("fresh")
	require.Equal(t, 2, rl.Len())

	clock = clock.Add(2 * time.Minute)
	rl.Allow("fresh")
	rl.evictIdle()

	assert.Equal(t, 1, rl.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clock := time.Now()
	rl := newLimiterAt(2, time.Minute, &clock)

	router := gin.New()
	router.Use(RateLimit(rl))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		router.ServeHTTP(w, req)
		return w
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

	do()
	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, third.Body.String(), "RATE_LIMIT_EXCEEDED")

	retryAfter, err := strconv.Atoi(third.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clock := time.Now()
	rl := newLimiterAt(1, time.Minute, &clock)

	router := gin.New()
	router.Use(RateLimitByKey(rl, func(c *gin.Context) string {
		return c.GetHeader("X-Api-Key")
	}))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	do := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Api-Key", key)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("alpha"))
	assert.Equal(t, http.StatusTooManyRequests, do("alpha"))
	assert.Equal(t, http.StatusOK, do("beta"))
}
