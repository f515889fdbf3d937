// Package acl is the Anti-Corruption Layer between the widget and the Weird
// Rich quote API.
//
// The upstream speaks in {quoteText, author} JSON objects and HTTP status
// codes. Nothing in that vocabulary leaves this package: callers see
// [domain.Quote], [domain.Draft] and domain errors only.
//
// # Package Components
//
//   - [QuoteClient]: implements ports.QuoteClient and ports.HealthChecker
//   - [BaseAdapter]: embeddable request helpers that map failures to domain errors
//   - [MapHTTPError]: HTTP status and client error to domain error mapping
//   - [ParseErrorResponse]: JSON error body parsing
//   - [DecodeResponse]: generic JSON response decoder
//
// # Error Handling Strategy
//
//   - 404 Not Found → [domain.ErrNotFound]
//   - 409 Conflict → [domain.ErrConflict]
//   - 400/422 Validation → [domain.ErrValidation]
//   - 401/403/429, 5xx and network errors → [domain.ErrUnavailable]
//   - context cancellation and deadline → returned unchanged
//
// A 200 random-quote response missing quoteText or author is a
// [domain.ErrValidation]; an undecodable body is [domain.ErrUnavailable].
package acl
