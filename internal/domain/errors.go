// Domain errors describe business-level failures, not transport failures.
// Adapters map them to HTTP statuses or UI messages.
package domain

import (
	"errors"
	"fmt"
)

// User-facing messages. Surfaces show these verbatim.
const (
	FetchFailureMessage    = "Failed to load quote. Please try again."
	SubmitFailureMessage   = "Could not add the quote. Please try again."
	SubmitSuccessMessage   = "Quote added successfully!"
	DraftIncompleteMessage = "Please enter both the quote and the author."
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the quote service rejected a duplicate or stale write.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates a draft or request failed business validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates the quote service could not be reached or failed.
	ErrUnavailable = errors.New("unavailable")

	// ErrFetchFailure marks a failed random-quote fetch.
	ErrFetchFailure = errors.New("fetch failure")

	// ErrSubmitFailure marks a failed quote submission.
	ErrSubmitFailure = errors.New("submit failure")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// FetchError is a failed refresh. Message is what the user sees;
// Cause is what went wrong underneath.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch quote: %v", e.Cause)
}

// Message returns the user-facing text.
func (e *FetchError) Message() string { return FetchFailureMessage }

// Unwrap exposes both the kind sentinel and the cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailure, e.Cause}
}

// NewFetchError wraps cause as a fetch failure.
func NewFetchError(cause error) error {
	return &FetchError{Cause: cause}
}

// SubmitError is a failed submission.
type SubmitError struct {
	Cause error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit quote: %v", e.Cause)
}

// Message returns the user-facing text.
func (e *SubmitError) Message() string { return SubmitFailureMessage }

// Unwrap exposes both the kind sentinel and the cause.
func (e *SubmitError) Unwrap() []error {
	return []error{ErrSubmitFailure, e.Cause}
}

// NewSubmitError wraps cause as a submit failure.
func NewSubmitError(cause error) error {
	return &SubmitError{Cause: cause}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsFetchFailure checks if an error came from a failed refresh.
func IsFetchFailure(err error) bool {
	return errors.Is(err, ErrFetchFailure)
}

// IsSubmitFailure checks if an error came from a failed submission.
func IsSubmitFailure(err error) bool {
	return errors.Is(err, ErrSubmitFailure)
}
