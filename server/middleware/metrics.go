package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/observability"
)

// RequestMetrics records request count, latency and in-flight requests,
// labelled by route template rather than raw path.
func RequestMetrics(service string, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || probes[c.Request.URL.Path] {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, service, c.Request.Method+" "+route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
