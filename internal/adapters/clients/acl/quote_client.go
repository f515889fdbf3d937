package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// Quote service routes, relative to the client's BaseURL.
const (
	RandomQuotePath = "/api/quotes/random"
	SubmitQuotePath = "/api/quotes"
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API origin.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteClient and ports.HealthChecker against
// the Weird Rich quote API.
type QuoteClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		logger:      logger,
	}
}

// quoteDTO is the wire shape of a quote in both directions.
// It never leaves this package.
type quoteDTO struct {
	QuoteText string `json:"quoteText"`
	Author    string `json:"author"`
}

// RandomQuote fetches one random quote. Only a 200 carrying both quoteText
// and author counts as success; the values are returned exactly as sent.
func (c *QuoteClient) RandomQuote(ctx context.Context) (domain.Quote, error) {
	const operation = "fetch random quote"

	logging.Trace(ctx, c.logger, "starting request", slog.String("path", RandomQuotePath))

	resp, err := c.Get(ctx, RandomQuotePath, operation)
	if err != nil {
		return domain.Quote{}, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return domain.Quote{}, domain.NewUnavailableError(c.ServiceName(),
			fmt.Sprintf("%s returned status %d", operation, resp.StatusCode))
	}

	dto, err := DecodeResponse[quoteDTO](resp.Body)
	if err != nil {
		c.logger.WarnContext(ctx, "malformed quote response", slog.Any("error", err))

		return domain.Quote{}, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	quote, err := translateQuote(dto)
	if err != nil {
		c.logger.WarnContext(ctx, "incomplete quote response", slog.Any("error", err))

		return domain.Quote{}, err
	}

	logging.Trace(ctx, c.logger, "request complete",
		slog.String("path", RandomQuotePath),
		slog.Int("status", resp.StatusCode))

	return quote, nil
}

// SubmitQuote posts a draft to the collection. Any 2xx is success and the
// response body is ignored.
func (c *QuoteClient) SubmitQuote(ctx context.Context, draft domain.Draft) error {
	const operation = "submit quote"

	logging.Trace(ctx, c.logger, "starting request", slog.String("path", SubmitQuotePath))

	resp, err := c.PostJSON(ctx, SubmitQuotePath, quoteDTO{
		QuoteText: draft.Text,
		Author:    draft.Author,
	}, operation)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	logging.Trace(ctx, c.logger, "request complete",
		slog.String("path", SubmitQuotePath),
		slog.Int("status", resp.StatusCode))

	return nil
}

// translateQuote is the ACL boundary for inbound quotes.
var translateQuote Translator[quoteDTO, domain.Quote] = func(ext *quoteDTO) (domain.Quote, error) {
	if err := ValidateRequired(ext.QuoteText, "quoteText"); err != nil {
		return domain.Quote{}, err
	}

	if err := ValidateRequired(ext.Author, "author"); err != nil {
		return domain.Quote{}, err
	}

	return domain.Quote{Text: ext.QuoteText, Author: ext.Author}, nil
}

// Name returns the health checker name.
func (c *QuoteClient) Name() string {
	return "quote-service"
}

// Check reports the quote service unhealthy while the circuit is open,
// otherwise it probes the random quote route.
func (c *QuoteClient) Check(ctx context.Context) error {
	if c.Client().CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(c.ServiceName(), "circuit breaker open")
	}

	resp, err := c.Get(ctx, RandomQuotePath, "health check")
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	return nil
}
