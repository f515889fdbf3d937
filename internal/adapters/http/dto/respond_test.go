package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return c, w
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name         string
		setupContext func(*gin.Context)
		want         string
	}{
		{
			name: "trace ID in context",
			setupContext: func(c *gin.Context) {
				c.Set(ContextKeyTraceID, "context-trace-123")
			},
			want: "context-trace-123",
		},
		{
			name: "request ID header",
			setupContext: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "header-trace-456",
		},
		{
			name: "request ID set on response by middleware",
			setupContext: func(c *gin.Context) {
				c.Header("X-Request-ID", "generated-789")
			},
			want: "generated-789",
		},
		{
			name: "context takes precedence",
			setupContext: func(c *gin.Context) {
				c.Set(ContextKeyTraceID, "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "context-trace-123",
		},
		{
			name:         "nothing set",
			setupContext: func(*gin.Context) {},
			want:         "",
		},
		{
			name: "wrong type in context is ignored",
			setupContext: func(c *gin.Context) {
				c.Set(ContextKeyTraceID, 12345)
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			tt.setupContext(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found",
			err:         domain.NewNotFoundError("displayed quote", ""),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: "displayed quote",
		},
		{
			name:        "conflict",
			err:         domain.NewConflictError("submission", "already in progress"),
			wantStatus:  http.StatusConflict,
			wantCode:    ErrorCodeConflict,
			wantMessage: "already in progress",
		},
		{
			name:        "validation",
			err:         domain.NewValidationError("author", "must not be blank"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "request validation failed",
		},
		{
			name:        "submit failure uses the user message",
			err:         domain.NewSubmitError(domain.NewUnavailableError("quote-service", "returned status 500")),
			wantStatus:  http.StatusBadGateway,
			wantCode:    ErrorCodeUpstream,
			wantMessage: domain.SubmitFailureMessage,
		},
		{
			name:        "submit failure over upstream not found",
			err:         domain.NewSubmitError(domain.NewNotFoundError("weirdrich", "submit quote")),
			wantStatus:  http.StatusBadGateway,
			wantCode:    ErrorCodeUpstream,
			wantMessage: domain.SubmitFailureMessage,
		},
		{
			name:        "submit failure over upstream conflict",
			err:         domain.NewSubmitError(domain.NewConflictError("weirdrich", "resource conflict")),
			wantStatus:  http.StatusBadGateway,
			wantCode:    ErrorCodeUpstream,
			wantMessage: domain.SubmitFailureMessage,
		},
		{
			name:        "submit failure over upstream validation",
			err:         domain.NewSubmitError(domain.NewValidationError("author", "too short")),
			wantStatus:  http.StatusBadGateway,
			wantCode:    ErrorCodeUpstream,
			wantMessage: domain.SubmitFailureMessage,
		},
		{
			name:        "submit failure over deadline",
			err:         domain.NewSubmitError(fmt.Errorf("post: %w", context.DeadlineExceeded)),
			wantStatus:  http.StatusBadGateway,
			wantCode:    ErrorCodeUpstream,
			wantMessage: domain.SubmitFailureMessage,
		},
		{
			name:        "fetch failure uses the user message",
			err:         domain.NewFetchError(errors.New("boom")),
			wantStatus:  http.StatusBadGateway,
			wantCode:    ErrorCodeUpstream,
			wantMessage: domain.FetchFailureMessage,
		},
		{
			name:        "unavailable hides the reason",
			err:         domain.NewUnavailableError("quote-service", "circuit breaker open"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "temporarily unavailable",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("waiting: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    ErrorCodeTimeout,
			wantMessage: "timeout",
		},
		{
			name:        "unknown",
			err:         errors.New("unexpected"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMessage)
		})
	}

	t.Run("nil", func(t *testing.T) {
		status, resp := MapDomainError(nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})

	t.Run("validation details carry the field", func(t *testing.T) {
		_, resp := MapDomainError(domain.NewValidationError("quoteText", "must not be blank"))

		assert.Equal(t, map[string]string{"quoteText": "must not be blank"}, resp.Error.Details)
	})
}

func TestHandleError(t *testing.T) {
	c, w := newTestContext(t)
	c.Set(ContextKeyTraceID, "trace-123")

	HandleError(c, domain.NewSubmitError(errors.New("connection refused")))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeUpstream, resp.Error.Code)
	assert.Equal(t, domain.SubmitFailureMessage, resp.Error.Message)
	assert.Equal(t, "trace-123", resp.TraceID)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRespondWithErrorCode(t *testing.T) {
	c, w := newTestContext(t)

	RespondWithErrorCode(c, ErrorCodeBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad input")
}

func TestRespondWithBindError(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		c.Request.Header.Set("Content-Type", "application/json")

		var req SubmitQuoteRequest
		err := BindAndValidate(c, &req)
		require.Error(t, err)

		RespondWithBindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ErrorCodeBadRequest, resp.Error.Code)
	})

	t.Run("field errors", func(t *testing.T) {
		c, w := newTestContext(t)
		body := `{"quoteText":"` + strings.Repeat("x", 1001) + `","author":"Ada"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req SubmitQuoteRequest
		err := BindAndValidate(c, &req)
		require.Error(t, err)

		RespondWithBindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "quoteText")
		assert.NotContains(t, resp.Error.Details, "author")
	})
}
