package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs every handled request except health checks
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		c.Next()

		if c.FullPath() == "/health" {
			return
		}
		slog.Info("handled request",
			"method", c.Request.Method,
			"url", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(now),
		)
	}
}
