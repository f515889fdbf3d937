package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// ContextKeyTraceID lets middleware pin a trace ID on the gin context.
// It wins over the span and request ID when set.
const ContextKeyTraceID = "trace_id"

const headerRequestID = "X-Request-ID"

// messager is satisfied by domain errors that carry user-facing text.
type messager interface {
	Message() string
}

// GetTraceID returns the best identifier for correlating a response with
// server logs: an explicit trace_id key, then the active span, then the
// request ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}

	if c.Request != nil {
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
			return sc.TraceID().String()
		}

		if id := c.GetHeader(headerRequestID); id != "" {
			return id
		}
	}

	return c.Writer.Header().Get(headerRequestID)
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	// Upstream failures come first: their causes carry the quote service's
	// own status kinds, which must not leak out as ours.
	var userFacing messager
	if (domain.IsSubmitFailure(err) || domain.IsFetchFailure(err)) && errors.As(err, &userFacing) {
		return http.StatusBadGateway, NewErrorResponse(ErrorCodeUpstream, userFacing.Message())
	}

	switch {
	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			resp.Error.Message = "request validation failed"
			if validationErr.Field != "" {
				resp.Error.Details = map[string]string{
					validationErr.Field: validationErr.Message,
				}
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"the quote service is temporarily unavailable",
		)

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes the response for err and logs anything that is the
// server's fault.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	logger := logging.FromContext(c.Request.Context())

	switch {
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		logger.Error("request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("trace_id", errResp.TraceID),
		)
	case status == http.StatusBadGateway:
		logger.Warn("quote service call failed",
			slog.String("error", err.Error()),
			slog.String("trace_id", errResp.TraceID),
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from the domain.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	errResp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.JSON(HTTPStatusFromCode(code), errResp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponseWithDetails(
		ErrorCodeValidation,
		"request validation failed",
		fieldErrors,
	).WithTraceID(GetTraceID(c))

	c.JSON(http.StatusBadRequest, errResp)
}

// RespondWithBindError turns a BindAndValidate failure into a 400.
func RespondWithBindError(c *gin.Context, err error) {
	if IsValidationError(err) {
		RespondWithValidationErrors(c, ValidationErrors(err))

		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "request body is not valid JSON")
}
