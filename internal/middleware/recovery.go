// Package middleware provides gin middleware shared by the HTTP server.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorRecovery turns a panic in a handler into a logged 500 with the usual AppError body
func ErrorRecovery(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			stackTrace := string(debug.Stack())
			panicErr, ok := recovered.(error)
			if !ok {
				panicErr = fmt.Errorf("panic: %v", recovered)
			}

			appErr := contextutils.NewAppErrorWithCause(
				contextutils.ErrorCodeInternalError,
				contextutils.SeverityFatal,
				"Internal server error",
				"A panic occurred while processing the request",
				panicErr,
			)
			if gin.Mode() == gin.DebugMode {
				appErr.Details = fmt.Sprintf("%s\nStack trace: %s", appErr.Details, stackTrace)
			}

			logger.Error(c.Request.Context(), "Panic recovered", panicErr, map[string]interface{}{
				"http.method": c.Request.Method,
				"http.path":   c.Request.URL.Path,
				"stack":       stackTrace,
			})

			_ = c.Error(appErr)
			c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToJSON())
		}()

		c.Next()
	}
}
