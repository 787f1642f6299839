package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	resp "gin-gorm-user-service/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}

// ipIdleTTL 某 IP 空闲超过该时长后回收其令牌桶
const ipIdleTTL = 10 * time.Minute

// RateLimitPerIP 每 IP 限速，空闲的桶按 TTL 回收
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	return rateLimitPerIP(rps, burst, gocache.New(ipIdleTTL, ipIdleTTL))
}

func rateLimitPerIP(rps rate.Limit, burst int, buckets *gocache.Cache) gin.HandlerFunc {
	var mu sync.Mutex
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		var lim *rate.Limiter
		if v, ok := buckets.Get(ip); ok {
			lim = v.(*rate.Limiter)
		} else {
			lim = rate.NewLimiter(rps, burst)
		}
		// 每次访问续期
		buckets.SetDefault(ip, lim)
		mu.Unlock()
		if lim.Allow() {
			c.Next()
			return
		}
		tooMany(c)
	}
}

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		resp.Error(resp.CodeTooManyRequests, resp.ErrTooManyRequests, "too many requests"))
}
