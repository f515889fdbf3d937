package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// DefaultRefreshInterval is how often a mounted widget fetches a new quote.
const DefaultRefreshInterval = 15 * time.Second

// ErrNotMounted is reported by the widget health check before Mount.
var ErrNotMounted = errors.New("widget not mounted")

// WidgetConfig contains configuration for the widget lifecycle.
type WidgetConfig struct {
	Refresh    *RefreshController
	Submission *SubmissionController
	Interval   time.Duration
	NewTicker  ports.TickerFactory
	Logger     *slog.Logger
}

// Widget ties the controllers to a mount/unmount lifecycle. While mounted it
// owns exactly one goroutine that refreshes on every tick.
type Widget struct {
	refresh    *RefreshController
	submission *SubmissionController
	interval   time.Duration
	newTicker  ports.TickerFactory
	logger     *slog.Logger

	mu      sync.Mutex
	mounted bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWidget creates an unmounted widget.
// Panics if Refresh or Submission is nil.
func NewWidget(cfg WidgetConfig) *Widget {
	if cfg.Refresh == nil || cfg.Submission == nil {
		panic("Widget: Refresh and Submission controllers are required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	newTicker := cfg.NewTicker
	if newTicker == nil {
		newTicker = ports.NewTimeTicker
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Widget{
		refresh:    cfg.Refresh,
		submission: cfg.Submission,
		interval:   interval,
		newTicker:  newTicker,
		logger:     logger.With(slog.String("component", "widget")),
	}
}

// Refresh returns the refresh controller.
func (w *Widget) Refresh() *RefreshController { return w.refresh }

// Submission returns the submission controller.
func (w *Widget) Submission() *SubmissionController { return w.submission }

// Mount enters the loading phase immediately, then fetches the first quote
// and refreshes on every tick in the background. Mounting a mounted widget
// does nothing. The loop also stops when ctx is canceled.
func (w *Widget) Mount(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mounted {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	ticker := w.newTicker(w.interval)
	gen := w.refresh.begin()

	w.mounted = true
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(loopCtx, ticker, gen, w.done)

	w.logger.InfoContext(ctx, "widget mounted", slog.Duration("refresh_interval", w.interval))
}

func (w *Widget) run(ctx context.Context, ticker ports.Ticker, initial uint64, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	w.refresh.fetch(ctx, initial)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			logging.Trace(ctx, w.logger, "refresh tick")
			w.refresh.Refresh(ctx)
		}
	}
}

// Unmount stops the ticker, cancels any in-flight timer refresh and waits
// for the loop to exit. It then ends all subscriptions and clears the draft.
// Unmounting an unmounted widget does nothing.
func (w *Widget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.mounted {
		return
	}

	w.cancel()
	<-w.done

	w.mounted = false
	w.cancel = nil
	w.done = nil

	w.submission.Reset()
	w.refresh.closeSubscriptions()
	w.submission.closeSubscriptions()

	w.logger.Info("widget unmounted")
}

// Mounted reports whether the refresh loop is running.
func (w *Widget) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mounted
}

// Name returns the health checker name.
func (w *Widget) Name() string {
	return "widget"
}

// Check fails while the widget is not mounted.
func (w *Widget) Check(context.Context) error {
	if !w.Mounted() {
		return ErrNotMounted
	}

	return nil
}
