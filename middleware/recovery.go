package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/types"
)

// Recovery creates a recovery middleware that recovers from panics
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.Error().
					Str("trace_id", GetTraceID(c)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				c.JSON(http.StatusInternalServerError, types.ErrorResponse{
					StatusCode: http.StatusInternalServerError,
					IsSuccess:  false,
					Error: types.ErrorDetail{
						Timestamp:    time.Now().Format(time.RFC3339),
						Path:         c.Request.URL.Path,
						ErrorMessage: "Internal server error",
					},
				})

				c.Abort()
			}
		}()

		c.Next()
	}
}
