package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/pkg/logger"
)

// LoggerMiddleware creates a structured logging middleware
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("request failed", append(args, "errors", c.Errors.String())...)
		case status >= 500:
			log.Warn("request", args...)
		default:
			log.Info("request", args...)
		}
	}
}
