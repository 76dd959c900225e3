package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pdf2docx/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	UploadNameKey  = "uploadName"
	UploadBytesKey = "uploadBytes"
)

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
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"bytes_out":   c.Writer.Size(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if name, ok := c.Get(UploadNameKey); ok {
			fields["upload_name"] = name
		}
		if size, ok := c.Get(UploadBytesKey); ok {
			fields["upload_bytes"] = size
		}
		telemetry.Info("request.complete", fields)
	}
}
