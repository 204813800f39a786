// ABOUTME: Gin middleware: panic recovery and request logging with metrics.
// ABOUTME: Recovery runs outermost so the logger middleware also gets covered.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				c.Abort()
			}
		}()
		c.Next()
	}
}

func requestLogger(logger *zap.Logger, m *metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Seconds()

		m.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(c.Request.Method, path).Observe(elapsed)

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration", elapsed),
			zap.String("client_ip", c.ClientIP()))
	}
}
