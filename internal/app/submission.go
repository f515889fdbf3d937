package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// SubmissionControllerConfig contains configuration for the submission controller.
type SubmissionControllerConfig struct {
	QuoteClient ports.QuoteClient
	Executor    *Executor
	Logger      *slog.Logger
	Metrics     Metrics

	// SubmitTimeout bounds a single POST. Zero means the caller's deadline only.
	SubmitTimeout time.Duration
}

// SubmissionController owns the add-quote form and its draft.
type SubmissionController struct {
	client   ports.QuoteClient
	executor *Executor
	logger   *slog.Logger
	metrics  Metrics
	timeout  time.Duration

	mu   sync.Mutex
	form domain.FormState
	hub  *hub[domain.FormState]
}

// NewSubmissionController creates a controller with the form closed and empty.
// Panics if QuoteClient is nil.
func NewSubmissionController(cfg SubmissionControllerConfig) *SubmissionController {
	if cfg.QuoteClient == nil {
		panic("SubmissionController: QuoteClient is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "submission"))

	executor := cfg.Executor
	if executor == nil {
		executor = NewExecutor(logger)
	}

	return &SubmissionController{
		client:   cfg.QuoteClient,
		executor: executor,
		logger:   logger,
		metrics:  metricsOrNoop(cfg.Metrics),
		timeout:  cfg.SubmitTimeout,
		hub:      newHub[domain.FormState](),
	}
}

// ToggleForm opens a closed form or closes an open one. The draft survives
// closing so reopening shows what was typed.
func (c *SubmissionController) ToggleForm() domain.FormState {
	return c.update(func(f *domain.FormState) {
		f.Open = !f.Open
	})
}

// OpenForm shows the form.
func (c *SubmissionController) OpenForm() domain.FormState {
	return c.update(func(f *domain.FormState) { f.Open = true })
}

// CloseForm hides the form, keeping the draft.
func (c *SubmissionController) CloseForm() domain.FormState {
	return c.update(func(f *domain.FormState) { f.Open = false })
}

// UpdateDraft replaces the draft with what the user typed.
func (c *SubmissionController) UpdateDraft(draft domain.Draft) domain.FormState {
	return c.update(func(f *domain.FormState) { f.Draft = draft })
}

// DismissNotice acknowledges the success notification.
func (c *SubmissionController) DismissNotice() domain.FormState {
	return c.update(func(f *domain.FormState) { f.Notice = "" })
}

// Reset empties the form. Used on teardown.
func (c *SubmissionController) Reset() domain.FormState {
	return c.update(func(f *domain.FormState) { *f = domain.FormState{} })
}

// Snapshot returns a copy of the current form state.
func (c *SubmissionController) Snapshot() domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.form
}

// Subscribe streams form state changes, starting with the current one.
func (c *SubmissionController) Subscribe() (<-chan domain.FormState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hub.subscribe(c.form)
}

func (c *SubmissionController) closeSubscriptions() {
	c.hub.closeAll()
}

func (c *SubmissionController) update(fn func(*domain.FormState)) domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.form)
	c.hub.publish(c.form)

	return c.form
}

// Submit adds draft to the remote collection.
//
// A draft with a blank field is rejected before any network call and the
// returned error satisfies domain.IsValidation. A failed POST leaves the
// draft in place, shows domain.SubmitFailureMessage and returns a
// domain.SubmitError. On success the draft is cleared, the form closes and
// the success notice is set. A submit while another is in flight returns a
// domain.ConflictError without calling the service.
func (c *SubmissionController) Submit(ctx context.Context, draft domain.Draft) (domain.FormState, error) {
	c.mu.Lock()
	if c.form.Submitting {
		c.mu.Unlock()

		return c.Snapshot(), domain.NewConflictError("submission", "already in progress")
	}

	c.form.Draft = draft
	c.form.Error = ""
	c.form.Notice = ""
	c.form.Submitting = true
	c.hub.publish(c.form)
	c.mu.Unlock()

	form, err := Execute(ctx, c.executor, Operation[domain.Draft, struct{}, bool, domain.FormState]{
		Name: "submit_quote",
		Validate: func(_ context.Context, d domain.Draft) error {
			return d.Validate()
		},
		Perform: func(ctx context.Context, d domain.Draft) (struct{}, error) {
			if c.timeout > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, c.timeout)
				defer cancel()
			}

			return struct{}{}, c.client.SubmitQuote(ctx, d)
		},
		// The user may keep typing while the POST is out; only the draft
		// that was actually sent gets cleared.
		Verify: func(_ context.Context, d domain.Draft, _ struct{}) (bool, error) {
			c.mu.Lock()
			defer c.mu.Unlock()

			return c.form.Draft == d, nil
		},
		Archive: func(_ context.Context, _ domain.Draft, sentDraftShown bool) error {
			c.update(func(f *domain.FormState) {
				if sentDraftShown {
					f.Draft = domain.Draft{}
					f.Open = false
				}

				f.Submitting = false
				f.Notice = domain.SubmitSuccessMessage
			})

			return nil
		},
		Respond: func(context.Context, domain.Draft, bool) (domain.FormState, error) {
			return c.Snapshot(), nil
		},
	}, draft)
	if err == nil {
		c.metrics.SubmissionCompleted(ResultSuccess)

		return form, nil
	}

	if step, _ := GetExecutionStep(err); step == StepValidate {
		c.metrics.SubmissionCompleted(ResultInvalid)

		return c.fail(domain.DraftIncompleteMessage), err
	}

	c.metrics.SubmissionCompleted(ResultFailure)
	c.logger.WarnContext(ctx, "quote submission failed", slog.Any("error", err))

	return c.fail(domain.SubmitFailureMessage), domain.NewSubmitError(err)
}

func (c *SubmissionController) fail(message string) domain.FormState {
	return c.update(func(f *domain.FormState) {
		f.Submitting = false
		f.Error = message
	})
}
