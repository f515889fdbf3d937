package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// errNilBody is returned by DecodeResponse when there is nothing to decode.
var errNilBody = errors.New("response body is nil")

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in your service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request. Any 2xx response is handed back with its body
// open (caller must close); everything else becomes a domain error.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (*http.Response, error) {
	resp, err := a.client.Get(ctx, path)

	return a.check(resp, err, operation)
}

// PostJSON performs a JSON POST request with the same response contract as Get.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, body any, operation string) (*http.Response, error) {
	resp, err := a.client.PostJSON(ctx, path, body)

	return a.check(resp, err, operation)
}

func (a *BaseAdapter) check(resp *http.Response, err error, operation string) (*http.Response, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errNilBody
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// ValidateRequired checks that a required field is present and not blank.
// Returns a domain.ValidationError if it is.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}

// Translator is a function type that translates an external DTO to a domain type.
// The function should validate the external data and return a domain error
// if validation fails.
type Translator[External any, Domain any] func(ext *External) (Domain, error)
