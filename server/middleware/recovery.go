package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/logger"
)

// Recovery answers a panicking handler with a 500 and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.WithContext(c.Request.Context()).Error("Panic recovered", logger.Fields(
				logger.FieldError, fmt.Sprint(rec),
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			))
			abort(c, apperrors.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		c.Next()
	}
}
