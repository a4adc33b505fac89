package middleware

import (
	"time"

	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogging logs one entry per request. 5xx responses log at error level and 4xx at warn.
func RequestLogging(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": statusCode,
			"http.latency_ms":  time.Since(start).Milliseconds(),
			"http.client_ip":   c.ClientIP(),
			"http.user_agent":  c.Request.UserAgent(),
			"request_id":       contextutils.GetRequestIDFromContext(ctx),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}

		switch {
		case statusCode >= 500:
			fields["http.error_type"] = "server_error"
			logger.Error(ctx, "HTTP request failed", nil, fields)
		case statusCode >= 400:
			fields["http.error_type"] = "client_error"
			logger.Warn(ctx, "HTTP request warning", fields)
		default:
			logger.Info(ctx, "HTTP request", fields)
		}
	}
}
