package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/guard"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id and logs its outcome.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id, _ = common.MakeRandHexString(8)
		}
		c.Header(requestIDHeader, id)

		c.Next()

		args := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		var lastErr error
		if err := c.Errors.Last(); err != nil {
			lastErr = err.Err
			args = append(args, "kind", common.KindOf(lastErr), "error", lastErr)
		}

		switch status := c.Writer.Status(); {
		case errors.Is(lastErr, context.Canceled):
			logger.Info(c.Request.Context(), "request canceled", args...)
		case status >= 500:
			logger.Error(c.Request.Context(), "request failed", args...)
		case status >= 400:
			logger.Warn(c.Request.Context(), "request rejected", args...)
		default:
			logger.Info(c.Request.Context(), "request served", args...)
		}
	}
}

// authenticate resolves the bearer token and attaches the identity to the
// request context.
func authenticate(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.Request.Header)
		if err != nil {
			fail(c, err)
			return
		}
		c.Request = c.Request.WithContext(guard.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := guard.RequireRole(guard.IdentityFrom(c.Request.Context()), role); err != nil {
			fail(c, err)
			return
		}
		c.Next()
	}
}
