package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCooldownLimiter_Check(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewCooldownLimiter(time.Second)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Check("a").Allowed)

	now = now.Add(400 * time.Millisecond)
	result := limiter.Check("a")
	assert.False(t, result.Allowed)
	assert.Equal(t, 600*time.Millisecond, result.RetryAfter)

	// 不同 key 互不影响
	assert.True(t, limiter.Check("b").Allowed)

	now = now.Add(600 * time.Millisecond)
	assert.True(t, limiter.Check("a").Allowed)

	limiter.Reset("a")
	assert.True(t, limiter.Check("a").Allowed)
}

func TestCooldownLimiter_SweepsExpiredEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewCooldownLimiter(time.Second)
	limiter.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		assert.True(t, limiter.Check(key).Allowed)
	}
	assert.Equal(t, 3, entries(limiter))

	// 清理间隔到达后，只保留仍在冷却中的 key
	now = now.Add(minSweepInterval)
	assert.True(t, limiter.Check("d").Allowed)
	assert.Equal(t, 1, entries(limiter))

	result := limiter.Check("d")
	assert.False(t, result.Allowed, "清理不影响冷却中的 key")
	assert.True(t, limiter.Check("a").Allowed)
}

func entries(limiter *CooldownLimiter) int {
	n := 0
	limiter.locks.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func TestThrottle(t *testing.T) {
	r := gin.New()
	r.POST("/login", Throttle(NewCooldownLimiter(time.Hour)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w
	}

	assert.Equal(t, http.StatusNoContent, post().Code)

	w := post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
