package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuedesk/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies larger than maxBytes. A declared
// Content-Length over the limit is refused up front; chunked uploads are
// capped by wrapping the body so a lying client cannot stream past the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeTooLarge,
				"Request body exceeds maximum allowed size",
				requestIDFrom(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
