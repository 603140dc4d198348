package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/shared/telemetry"
)

// OperationKey is set by handlers that run a named advisor operation.
const OperationKey = "operation"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"session_id":  SessionIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if op := c.GetString(OperationKey); op != "" {
			fields["operation"] = op
		}
		if reportID := c.GetString("reportId"); reportID != "" {
			fields["report_id"] = reportID
		}
		telemetry.Info("request.complete", fields)
	}
}
