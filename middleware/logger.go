// middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"virtualroom/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger 记录请求耗时，并为每个请求分配 request id
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		logger.Info("[%s] %s %s %d %s %v", requestID, c.Request.Method, path, c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}
