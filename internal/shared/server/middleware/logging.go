package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"course-planner/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if planID, ok := c.Get("planId"); ok {
			fields["plan_id"] = planID
		}
		if targets, ok := c.Get("targets"); ok {
			fields["targets"] = targets
		}
		telemetry.Info("request.complete", fields)
	}
}
