package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"latexme/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log.
const (
	WorkspaceIDKey = "workspaceId"
	UseCaseKey     = "useCase"
	OutcomeKey     = "outcome"
)

var contextLogFields = map[string]string{
	WorkspaceIDKey: "workspace_id",
	UseCaseKey:     "use_case",
	OutcomeKey:     "outcome",
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"owner_id":    OwnerIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for key, field := range contextLogFields {
			fields[field] = c.GetString(key)
		}
		telemetry.Info("request.complete", fields)
	}
}
