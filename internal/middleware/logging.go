package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-booking/internal/observability"
)

// RequestLogger writes one line per request. Server errors go out at error
// level so storage failures surface next to the handler's own log line.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		logger := observability.LoggerFromContext(c.Request.Context())

		ev := logger.Info()
		if status >= 500 {
			ev = logger.Error()
		}

		ev.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
