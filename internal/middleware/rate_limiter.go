package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 抓取限流器 ====================

// ScrapeRateLimiter 抓取限流器
// 防止频繁触发同一个账号的数据刷新导致上游封禁
type ScrapeRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &ScrapeRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *ScrapeRateLimiter {
	return globalLimiter
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时同时记录本次执行时间
// key 形如 "kol:123:refresh"
func (r *ScrapeRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 清除某个键的冷却（测试用）
func (r *ScrapeRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Gin 中间件 ====================

// ScrapeRateLimit 抓取接口限流中间件
// 按路径参数 id 维度冷却，interval 为 0 时默认 1 分钟
func ScrapeRateLimit(action string, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = time.Minute
	}

	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			id = c.ClientIP()
		}
		key := fmt.Sprintf("%s:%s", action, id)

		result := globalLimiter.Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error":  fmt.Sprintf("操作过于频繁，请 %d 秒后重试", retryAfter),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
