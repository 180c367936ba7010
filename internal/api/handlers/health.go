package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

const version = "1.0.0"

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthCheck reports service status and each dependency probe. Any failing
// probe turns the response into a 503.
func HealthCheck(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := gin.H{}
		for _, chk := range checks {
			if err := chk.Probe(ctx); err != nil {
				deps[chk.Name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[chk.Name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":       overall,
			"service":      "billiard-api",
			"version":      version,
			"uptime":       time.Since(startTime).String(),
			"dependencies": deps,
		})
	}
}
