package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// Deadline bounds every widget API call by timeout. Handlers run on the
// request goroutine and must watch ctx.Done themselves; if one gives up on
// the deadline without writing anything, the caller gets a 504 envelope.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if c.Writer.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		traceID := dto.GetTraceID(c)
		logging.FromContext(ctx).Warn("widget request ran past its deadline",
			slog.String("path", c.FullPath()),
			slog.Duration("timeout", timeout),
			slog.String("trace_id", traceID),
		)

		c.AbortWithStatusJSON(http.StatusGatewayTimeout,
			dto.NewErrorResponse(dto.ErrorCodeTimeout, "request timeout exceeded").WithTraceID(traceID))
	}
}
