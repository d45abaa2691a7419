package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fatflowers/paytrack/pkg/logctx"
)

const RequestIDHeader = "X-Request-ID"

// TraceMiddleware reads X-Request-ID if provided by the caller, otherwise
// generates a UUID, and stores it in both gin.Context and the request context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(logctx.GinTraceIDKey, traceID)
		c.Request = c.Request.WithContext(logctx.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}
