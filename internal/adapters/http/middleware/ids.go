// Package middleware holds the gin middleware in front of the widget API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one call to the widget.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID ties a browser or TUI action to every quote
	// service call it causes.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// idKind describes where one tracing ID travels: the header it arrives and
// leaves in, the gin key, the context key read by the quote client, and the
// logger attribute.
type idKind struct {
	header  string
	ginKey  string
	ctxKey  contextKey
	withLog func(context.Context, string) context.Context
}

var (
	requestIDKind = idKind{
		header:  HeaderRequestID,
		ginKey:  ContextKeyRequestID,
		ctxKey:  ctxKeyRequestID,
		withLog: logging.WithRequestID,
	}
	correlationIDKind = idKind{
		header:  HeaderCorrelationID,
		ginKey:  ContextKeyCorrelationID,
		ctxKey:  ctxKeyCorrelationID,
		withLog: logging.WithCorrelationID,
	}
)

// RequestID takes X-Request-ID from the caller or mints a UUID, echoes it
// back and makes it visible to logs and outgoing quote service calls.
func RequestID() gin.HandlerFunc { return requestIDKind.middleware() }

// CorrelationID does the same for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc { return correlationIDKind.middleware() }

func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)

		ctx := context.WithValue(c.Request.Context(), k.ctxKey, id)
		c.Request = c.Request.WithContext(k.withLog(ctx, id))

		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string { return getIDFromContext(c, ContextKeyRequestID) }

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string { return getIDFromContext(c, ContextKeyCorrelationID) }

func getIDFromContext(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return ""
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string { return idFrom(ctx, ctxKeyRequestID) }

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string { return idFrom(ctx, ctxKeyCorrelationID) }

// ContextWithRequestID attaches a request ID to ctx outside of gin.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID attaches a correlation ID to ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

func idFrom(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
