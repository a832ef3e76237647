package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/logger"
)

// probes are not logged.
var probes = map[string]bool{"/health": true, "/live": true, "/ready": true, "/metrics": true}

// RequestLogger logs one line per request; 5xx at error, 4xx at warn,
// the rest at debug.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if probes[c.Request.URL.Path] {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("Request completed", fields)
		case status >= 400:
			l.Warn("Request completed", fields)
		default:
			l.Debug("Request completed", fields)
		}
	}
}
