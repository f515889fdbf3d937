// Package clients provides the instrumented HTTP client used to reach the
// quote service.
package clients

import "errors"

// Client errors are infrastructure failures. The acl package translates
// them into domain errors.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last transport error once attempts run out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
