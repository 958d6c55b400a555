package middleware

import (
	"net/http"
	"sync"
	"time"

	"todo-app/src/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware クライアントIP単位のレート制限middleware。
// 固定ウィンドウ方式のメモリベース実装。
func RateLimitMiddleware(requestsPerMinute int) gin.HandlerFunc {
	type window struct {
		count int
		reset time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*window)
	)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		mu.Lock()
		w, ok := clients[clientIP]
		if !ok || now.After(w.reset) {
			w = &window{reset: now.Add(time.Minute)}
			clients[clientIP] = w
		}
		w.count++
		exceeded := w.count > requestsPerMinute
		mu.Unlock()

		if exceeded {
			logger.WithField("client_ip", clientIP).Warn("レート制限に達しました")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"data":    nil,
				"message": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
