package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// Logging writes one line per widget request once it has been served.
// Probe and metrics paths under /-/ are not logged. Routes listed in polled
// are hit by the page every few seconds, so their successes go out at
// debug; failures on them are still logged like any other.
//
// The request-scoped logger (carrying request and correlation IDs) is used
// when present, falling back to logger.
func Logging(logger *slog.Logger, polled ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(polled))
	for _, route := range polled {
		quiet[route] = struct{}{}
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		reqLogger := logger
		if scoped, ok := logging.Lookup(c.Request.Context()); ok {
			reqLogger = scoped
		}

		status := c.Writer.Status()
		route := c.FullPath()

		level := slog.LevelInfo
		switch _, isPolled := quiet[route]; {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case isPolled:
			level = slog.LevelDebug
		}

		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		reqLogger.Log(c.Request.Context(), level, "widget request served",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
