// Package endpoint has the probe and info handlers every deployment
// exposes next to the API.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/component"
)

// HealthChecker reports every registered component.
type HealthChecker func(ctx context.Context) []component.Health

type probeResponse struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp,omitempty"`
	Components []component.Health `json:"components,omitempty"`
}

// Overall is unhealthy if any component is, else degraded if any is.
func Overall(components []component.Health) component.HealthStatus {
	worst := component.StatusHealthy
	for _, h := range components {
		if h.Status == component.StatusUnhealthy {
			return h.Status
		}
		if h.Status == component.StatusDegraded {
			worst = h.Status
		}
	}
	return worst
}

func check(c *gin.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(c.Request.Context())
}

func statusCode(s component.HealthStatus) int {
	if s == component.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Health lists every component; 503 when the service is unhealthy.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c, checker)
		overall := Overall(components)
		c.JSON(statusCode(overall), probeResponse{
			Status:     string(overall),
			Service:    serviceName,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Components: components,
		})
	}
}

// Readiness is Health without the detail.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		overall := Overall(check(c, checker))
		resp := probeResponse{Status: "ready", Service: serviceName}
		if overall == component.StatusUnhealthy {
			resp.Status = "not_ready"
		}
		c.JSON(statusCode(overall), resp)
	}
}

func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, probeResponse{Status: "alive", Service: serviceName})
	}
}
