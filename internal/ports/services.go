// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs
//   - Error returns use domain error types (ErrUnavailable, ErrValidation, etc.)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// QuoteClient is the remote quote service as seen by the application.
type QuoteClient interface {
	// RandomQuote fetches one random quote.
	// Returns domain.ErrUnavailable on transport failures and non-200 replies,
	// and domain.ErrValidation when the body lacks quoteText or author.
	RandomQuote(ctx context.Context) (domain.Quote, error)

	// SubmitQuote stores a new quote. Any 2xx reply counts as success.
	SubmitQuote(ctx context.Context, draft domain.Draft) error
}

// RenderRequest describes the quote card to rasterize.
type RenderRequest struct {
	Quote           domain.Quote
	BackgroundColor string
	Watermark       string
}

// QuoteRenderer turns a quote card into an encoded image.
type QuoteRenderer interface {
	// Render returns the encoded image bytes.
	Render(ctx context.Context, req RenderRequest) ([]byte, error)

	// ContentType is the MIME type of what Render returns.
	ContentType() string
}

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates tickers. Tests substitute a manual one.
type TickerFactory func(d time.Duration) Ticker

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

type timeTicker struct {
	t *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }
