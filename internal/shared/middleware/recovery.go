package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"librarylite/internal/shared/response"
)

// Recovery turns a panic into a 500 with the standard error envelope.
// Stack output của gin bị tắt; panic được log qua zerolog.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Msg("Panic recovered")

		response.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
		c.Abort()
	})
}
