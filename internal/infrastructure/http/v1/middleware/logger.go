package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/pkg/logger"
)

// Logger writes one access log line per request. Server errors are
// logged at warn level so they stand out from regular traffic.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		l := log.WithContext(c.Request.Context())
		if status >= 500 {
			l.Warnw("http request", fields...)
			return
		}
		l.Infow("http request", fields...)
	}
}
