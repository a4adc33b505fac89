package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	contextutils "lexiquiz/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestTimeout puts a deadline on the request context. Handlers see it through
// the database, grammar and generation calls they make with that context. A
// handler that runs past the deadline without writing gets a 408 timeout body.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			appErr := contextutils.WithCause(contextutils.ErrTimeout, ctx.Err())
			_ = c.Error(appErr)
			c.AbortWithStatusJSON(http.StatusRequestTimeout, appErr.ToJSON())
		}
	}
}
