package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// RefreshControllerConfig contains configuration for the refresh controller.
type RefreshControllerConfig struct {
	QuoteClient ports.QuoteClient
	Logger      *slog.Logger
	Metrics     Metrics

	// Random picks background colors. Nil uses the global generator.
	Random domain.RandomSource

	// FetchTimeout bounds a single fetch. Zero means the caller's deadline only.
	FetchTimeout time.Duration

	// Now is the clock used for UpdatedAt. Defaults to time.Now.
	Now func() time.Time
}

// RefreshController owns the displayed quote. Each refresh takes a
// generation token at entry and its result is applied only while that
// token is still the newest one issued, so overlapping refreshes resolve
// to the most recently started one regardless of completion order.
type RefreshController struct {
	client  ports.QuoteClient
	logger  *slog.Logger
	metrics Metrics
	random  domain.RandomSource
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	state  domain.DisplayState
	issued uint64
	hub    *hub[domain.DisplayState]
}

// NewRefreshController creates a refresh controller in the idle state.
// Panics if QuoteClient is nil.
func NewRefreshController(cfg RefreshControllerConfig) *RefreshController {
	if cfg.QuoteClient == nil {
		panic("RefreshController: QuoteClient is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &RefreshController{
		client:  cfg.QuoteClient,
		logger:  logger.With(slog.String("component", "refresh")),
		metrics: metricsOrNoop(cfg.Metrics),
		random:  cfg.Random,
		timeout: cfg.FetchTimeout,
		now:     now,
		state:   domain.NewDisplayState(),
		hub:     newHub[domain.DisplayState](),
	}
}

// Refresh fetches a new random quote and returns the display state once
// this refresh has settled. Failures end up in the state, never in an error.
func (c *RefreshController) Refresh(ctx context.Context) domain.DisplayState {
	gen := c.begin()

	return c.fetch(ctx, gen)
}

// begin enters the loading phase and issues the next generation token.
func (c *RefreshController) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++
	c.state.Loading = true
	c.state.Phase = domain.PhaseLoading
	c.state.Error = ""
	c.hub.publish(c.state)

	return c.issued
}

func (c *RefreshController) fetch(ctx context.Context, gen uint64) domain.DisplayState {
	logger := c.logger.With(slog.Uint64("generation", gen))
	logger.DebugContext(ctx, "fetching random quote")

	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc

		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	quote, err := c.client.RandomQuote(fetchCtx)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.issued {
		logger.DebugContext(ctx, "discarding stale refresh result",
			slog.Uint64("latest_generation", c.issued),
			slog.Bool("failed", err != nil),
		)
		c.metrics.RefreshCompleted(ResultStale, elapsed)

		return c.state
	}

	c.state.Loading = false
	c.state.Generation = gen
	c.state.UpdatedAt = c.now()

	if err != nil {
		fetchErr := domain.NewFetchError(err)
		logger.WarnContext(ctx, "refresh failed",
			slog.Any("error", fetchErr),
			slog.Duration("duration", elapsed),
		)

		c.state.Quote = domain.Quote{}
		c.state.Error = domain.FetchFailureMessage
		c.state.Phase = domain.PhaseErrored
		c.metrics.RefreshCompleted(ResultErrored, elapsed)
	} else {
		c.state.Quote = quote
		c.state.Error = ""
		c.state.BackgroundColor = domain.RandomColor(c.random)
		c.state.Phase = domain.PhaseLoaded
		c.metrics.RefreshCompleted(ResultLoaded, elapsed)

		logger.InfoContext(ctx, "quote refreshed",
			slog.String("author", quote.Author),
			slog.String("background", c.state.BackgroundColor),
			slog.Duration("duration", elapsed),
		)
	}

	c.hub.publish(c.state)

	return c.state
}

// Snapshot returns a copy of the current display state.
func (c *RefreshController) Snapshot() domain.DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe streams display state changes, starting with the current one.
// Delivery keeps only the newest unread value. Call the returned func to stop.
func (c *RefreshController) Subscribe() (<-chan domain.DisplayState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hub.subscribe(c.state)
}

// closeSubscriptions ends every open Subscribe stream.
func (c *RefreshController) closeSubscriptions() {
	c.hub.closeAll()
}
