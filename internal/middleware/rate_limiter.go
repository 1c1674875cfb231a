package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// minSweepInterval 过期条目清理的最小间隔
const minSweepInterval = time.Minute

// CooldownLimiter 同一 key 两次放行之间至少间隔 interval
// 用于登录、注册等接口，防止暴力尝试
type CooldownLimiter struct {
	interval time.Duration
	locks    sync.Map // key -> *lockEntry
	now      func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	evicted  bool
	mu       sync.Mutex
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// NewCooldownLimiter 创建限流器
func NewCooldownLimiter(interval time.Duration) *CooldownLimiter {
	return &CooldownLimiter{interval: interval, now: time.Now}
}

// Check 检查是否允许执行，允许时记录本次时间
func (r *CooldownLimiter) Check(key string) CheckResult {
	now := r.now()
	r.maybeSweep(now)

	for {
		actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
		entry := actual.(*lockEntry)

		entry.mu.Lock()
		if entry.evicted {
			// 条目已被清理，重新取
			entry.mu.Unlock()
			continue
		}

		elapsed := now.Sub(entry.lastTime)
		if !entry.lastTime.IsZero() && elapsed < r.interval {
			entry.mu.Unlock()
			return CheckResult{
				Allowed:    false,
				RetryAfter: r.interval - elapsed,
			}
		}

		entry.lastTime = now
		entry.mu.Unlock()
		return CheckResult{Allowed: true}
	}
}

// Reset 重置指定 key
func (r *CooldownLimiter) Reset(key string) {
	if actual, ok := r.locks.LoadAndDelete(key); ok {
		entry := actual.(*lockEntry)
		entry.mu.Lock()
		entry.evicted = true
		entry.mu.Unlock()
	}
}

// maybeSweep 距上次清理超过 max(interval, minSweepInterval) 时删除冷却已结束的条目
func (r *CooldownLimiter) maybeSweep(now time.Time) {
	every := r.interval
	if every < minSweepInterval {
		every = minSweepInterval
	}

	r.sweepMu.Lock()
	if r.lastSweep.IsZero() {
		r.lastSweep = now
	}
	if now.Sub(r.lastSweep) < every {
		r.sweepMu.Unlock()
		return
	}
	r.lastSweep = now
	r.sweepMu.Unlock()

	r.locks.Range(func(key, value interface{}) bool {
		entry := value.(*lockEntry)
		entry.mu.Lock()
		if now.Sub(entry.lastTime) >= r.interval {
			entry.evicted = true
			r.locks.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

// ==================== 中间件 ====================

// Throttle 按 客户端 IP + 路由 限流
func Throttle(limiter *CooldownLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()

		result := limiter.Check(key)
		if !result.Allowed {
			seconds := int(result.RetryAfter.Seconds()) + 1
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": fmt.Sprintf("请求过于频繁，请 %d 秒后重试", seconds),
			})
			return
		}

		c.Next()
	}
}
