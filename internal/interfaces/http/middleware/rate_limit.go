package middleware

import (
	"net/http"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware API限速中间件
// 扩展异常时可能高频重试,超出速率的请求直接拒绝
func RateLimitMiddleware(qps int) gin.HandlerFunc {
	limiter := ratelimit.NewRateLimiter(qps)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
				"code":    contracts.ErrorCodeRateLimit,
			})
			return
		}
		c.Next()
	}
}
