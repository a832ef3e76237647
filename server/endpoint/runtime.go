package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/version"
)

var started = time.Now()

const mb = 1 << 20

// Info reports the build and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"build":   version.Get(),
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	}
}

// Metrics is a runtime snapshot. Pipeline metrics are exported through
// OpenTelemetry instead.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb": ms.Alloc / mb,
				"sys_mb":   ms.Sys / mb,
				"gc_runs":  ms.NumGC,
			},
		})
	}
}
