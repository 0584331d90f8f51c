package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultTimeout guards against a zero value from the config layer.
const defaultTimeout = 30 * time.Second

// Timeout bounds each request's context. Handlers hand this context to
// every blocking collaborator, so the deadline propagates to renders,
// uploads and checkpoint writes.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = defaultTimeout
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
