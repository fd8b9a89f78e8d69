package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flowlog/flowlog-backend/internal/logger"
)

// RequestIDKey is the gin context key holding the short correlation token
// attached to every request.
const RequestIDKey = "request_id"

// RequestLogger assigns a request id, exposes it via the X-Request-ID
// header, and logs the request and response with timing.
func RequestLogger(baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		requestID := uuid.NewString()[:8]
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		log.Info("Request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", requestID,
			"client", c.ClientIP(),
		)

		c.Next()

		duration := time.Since(start)
		log.Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", requestID,
			"status", c.Writer.Status(),
			"duration", fmt.Sprintf("%.3fs", duration.Seconds()),
		)
	}
}
