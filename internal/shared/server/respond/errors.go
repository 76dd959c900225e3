package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf2docx/internal/shared/telemetry"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "requestId"

// Error logs the failure and aborts the request with a short plain-text body.
// The cause is logged only; it never reaches the client.
func Error(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(RequestIDKey),
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.Abort()
	c.String(status, message)
}
