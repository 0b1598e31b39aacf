// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/pkg/logger"
)

// Recovery converts panics into 500 responses. The stack trace goes to
// the log only; the client sees a generic internal error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"panic", r,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", r)).
				WithDetail("request_id", c.GetString("request_id"))
			_ = c.Error(appErr)
			c.Abort()
		}()
		c.Next()
	}
}
