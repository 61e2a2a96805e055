package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header the request ID is read from and echoed to
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the gin context key the request ID is stored under
	RequestIDContextKey = "request_id"
)

// RequestID assigns every request an ID. An inbound X-Request-ID is trusted
// so IDs stay stable across proxies; otherwise a fresh UUID is issued. The ID
// is stored in the gin context and echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDContextKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// requestIDFrom returns the request ID for the current request, or ""
func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}
