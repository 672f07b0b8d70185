package middleware

import (
	"net/http"

	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects declared oversize bodies up front and caps streamed ones
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodePayloadTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(RequestIDKey),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
